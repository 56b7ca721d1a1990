package models

//Room is the database model to store rooms in our database. The primary key is assigned by
//the in-memory store and never reused.
type Room struct {
	ID      uint64   `gorm:"primaryKey;autoIncrement:false"`
	Name    string   `gorm:"unique;not null"`
	Devices []Device `gorm:"constraint:OnDelete:CASCADE;"`
}

//Device is the database model to store devices in our database
type Device struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement:false"`
	RoomID     uint64 `gorm:"not null;uniqueIndex:idx_room_device_name"`
	Name       string `gorm:"not null;uniqueIndex:idx_room_device_name"`
	IsOn       bool
	DeviceType string `gorm:"not null"`
}

//Sequence remembers the highest identifier that has ever been issued for a table, so
//that identifiers of deleted rows are not handed out again after a restart
type Sequence struct {
	Name string `gorm:"primaryKey"`
	Last uint64
}

const (
	//RoomSequence is the name of the sequence used for room identifiers
	RoomSequence = "rooms"
	//DeviceSequence is the name of the sequence used for device identifiers
	DeviceSequence = "devices"
)
