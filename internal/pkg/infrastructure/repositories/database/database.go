package database

import (
	"fmt"
	"time"

	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/logging"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/repositories/models"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/repositories/store"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/repositories/table"
	types "github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

//Datastore persists the rows of the smart house store so that they survive a restart
type Datastore interface {
	store.Persister
	Close() error
}

type myDB struct {
	impl *gorm.DB
	log  logging.Logger
}

//ConnectorFunc is used to inject a database connection method into NewDatabaseConnection
type ConnectorFunc func() (*gorm.DB, error)

//PostgreSQLSettings holds what is needed to connect to a postgresql database
type PostgreSQLSettings struct {
	Host     string
	User     string
	Name     string
	Password string
	SSLMode  string
}

const maxConnectAttempts = 10

//NewPostgreSQLConnector opens a connection to a postgresql database
func NewPostgreSQLConnector(settings PostgreSQLSettings, log logging.Logger) ConnectorFunc {
	dbURI := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=%s password=%s",
		settings.Host, settings.User, settings.Name, settings.SSLMode, settings.Password)

	return func() (*gorm.DB, error) {
		var err error
		for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
			log.Infof("Connecting to database host %s ...", settings.Host)

			var db *gorm.DB
			db, err = gorm.Open(postgres.Open(dbURI), &gorm.Config{})
			if err == nil {
				return db, nil
			}

			log.Errorf("Failed to connect to database (attempt %d): %s", attempt, err.Error())
			time.Sleep(3 * time.Second)
		}

		return nil, err
	}
}

//NewSQLiteConnector opens a connection to a local sqlite database. An empty path
//gives a shared in-memory database.
func NewSQLiteConnector(path string) ConnectorFunc {
	dsn := "file::memory:?cache=shared&_foreign_keys=1"
	if path != "" {
		dsn = fmt.Sprintf("file:%s?_foreign_keys=1", path)
	}

	return func() (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	}
}

//NewDatabaseConnection initializes a new connection to the database and wraps it in a Datastore
func NewDatabaseConnection(connect ConnectorFunc, log logging.Logger) (Datastore, error) {
	impl, err := connect()
	if err != nil {
		return nil, err
	}

	db := &myDB{
		impl: impl,
		log:  log,
	}

	err = db.impl.Debug().AutoMigrate(&models.Room{}, &models.Device{}, &models.Sequence{})
	if err != nil {
		log.Errorf("Failed to migrate database: %s", err.Error())
		return nil, err
	}

	return db, nil
}

func (db *myDB) Load() (*store.Snapshot, error) {
	rooms := []models.Room{}
	if result := db.impl.Order("id").Find(&rooms); result.Error != nil {
		return nil, result.Error
	}

	devices := []models.Device{}
	if result := db.impl.Order("id").Find(&devices); result.Error != nil {
		return nil, result.Error
	}

	sequences := []models.Sequence{}
	if result := db.impl.Find(&sequences); result.Error != nil {
		return nil, result.Error
	}

	snapshot := &store.Snapshot{}

	for _, r := range rooms {
		snapshot.Rooms = append(snapshot.Rooms, table.Row[store.Room]{
			ID:    table.ID(r.ID),
			Value: store.Room{Name: r.Name},
		})
	}

	for _, d := range devices {
		deviceType, err := types.ParseDeviceType(d.DeviceType)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", d.ID, err)
		}

		snapshot.Devices = append(snapshot.Devices, table.Row[store.Device]{
			ID: table.ID(d.ID),
			Value: store.Device{
				RoomID: table.ID(d.RoomID),
				Name:   d.Name,
				IsOn:   d.IsOn,
				Type:   deviceType,
			},
		})
	}

	for _, s := range sequences {
		switch s.Name {
		case models.RoomSequence:
			snapshot.LastRoomID = table.ID(s.Last)
		case models.DeviceSequence:
			snapshot.LastDeviceID = table.ID(s.Last)
		}
	}

	db.log.Infof("Loaded %d rooms and %d devices from database", len(snapshot.Rooms), len(snapshot.Devices))

	return snapshot, nil
}

func (db *myDB) InsertRoom(id table.ID, room store.Room) error {
	return db.impl.Transaction(func(tx *gorm.DB) error {
		record := &models.Room{ID: uint64(id), Name: room.Name}
		if result := tx.Create(record); result.Error != nil {
			return result.Error
		}
		return bumpSequence(tx, models.RoomSequence, id)
	})
}

func (db *myDB) DeleteRoom(id table.ID) error {
	return db.impl.Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("room_id = ?", uint64(id)).Delete(&models.Device{}); result.Error != nil {
			return result.Error
		}

		result := tx.Delete(&models.Room{}, uint64(id))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("no room with id %d in database", id)
		}

		return nil
	})
}

func (db *myDB) InsertDevice(id table.ID, device store.Device) error {
	return db.impl.Transaction(func(tx *gorm.DB) error {
		record := &models.Device{
			ID:         uint64(id),
			RoomID:     uint64(device.RoomID),
			Name:       device.Name,
			IsOn:       device.IsOn,
			DeviceType: device.Type.String(),
		}
		if result := tx.Create(record); result.Error != nil {
			return result.Error
		}
		return bumpSequence(tx, models.DeviceSequence, id)
	})
}

func (db *myDB) UpdateDevice(id table.ID, device store.Device) error {
	result := db.impl.Model(&models.Device{ID: uint64(id)}).Updates(map[string]interface{}{
		"name":        device.Name,
		"is_on":       device.IsOn,
		"device_type": device.Type.String(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no device with id %d in database", id)
	}
	return nil
}

func (db *myDB) DeleteDevice(id table.ID) error {
	result := db.impl.Delete(&models.Device{}, uint64(id))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no device with id %d in database", id)
	}
	return nil
}

func (db *myDB) Close() error {
	sqlDB, err := db.impl.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func bumpSequence(tx *gorm.DB, name string, id table.ID) error {
	sequence := &models.Sequence{Name: name, Last: uint64(id)}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"last"}),
	}).Create(sequence)

	if result.Error != nil {
		return fmt.Errorf("failed to update sequence %s: %w", name, result.Error)
	}
	return nil
}
