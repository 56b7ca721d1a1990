package store

import (
	"fmt"
	"sync"

	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/repositories/table"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/models"
)

//Store keeps the room and device tables and enforces the relations between them:
//room names are unique, device names are unique within a room and removing a room
//removes its devices.
type Store struct {
	mu sync.RWMutex

	rooms   *table.Table[Room]
	devices *table.Table[Device]

	persister Persister
}

//NewInMemory creates an empty store that is not backed by any storage
func NewInMemory() *Store {
	return &Store{
		rooms:     table.New[Room](),
		devices:   table.New[Device](),
		persister: nopPersister{},
	}
}

//New creates a store backed by the given Persister and restores all rows it has stored
func New(persister Persister) (*Store, error) {
	s := NewInMemory()
	if persister == nil {
		return s, nil
	}

	snapshot, err := persister.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load rows: %w", ErrStorage, err)
	}

	for _, row := range snapshot.Rooms {
		s.rooms.Put(row.ID, row.Value)
	}
	s.rooms.Reserve(snapshot.LastRoomID)

	for _, row := range snapshot.Devices {
		if _, ok := s.rooms.Get(row.Value.RoomID); !ok {
			return nil, fmt.Errorf("%w: device %d refers to missing room %d", ErrStorage, row.ID, row.Value.RoomID)
		}
		s.devices.Put(row.ID, row.Value)
	}
	s.devices.Reserve(snapshot.LastDeviceID)

	s.persister = persister

	return s, nil
}

//AddRoom adds a room without any devices
func (s *Store) AddRoom(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.findRoom(name); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRoomName, name)
	}

	room := Room{Name: name}
	id := s.rooms.Allocate()

	if err := s.persister.InsertRoom(id, room); err != nil {
		return storageError(err)
	}

	s.rooms.Put(id, room)
	return nil
}

//RemoveRoom removes a room together with all of its devices
func (s *Store) RemoveRoom(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.findRoom(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}

	roomID := room.ID

	if err := s.persister.DeleteRoom(roomID); err != nil {
		return storageError(err)
	}

	s.devices.DeleteWhere(func(d *table.Row[Device]) bool {
		return d.Value.RoomID == roomID
	})
	s.rooms.Delete(roomID)

	return nil
}

//Rooms returns the names of all rooms in the order they were added
func (s *Store) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, s.rooms.Len())
	for row := range s.rooms.Scan() {
		names = append(names, row.Value.Name)
	}

	return names
}

//RoomID returns the internal identifier of the named room
func (s *Store) RoomID(name string) (table.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.findRoom(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}

	return room.ID, nil
}

//AddDevice adds a device, switched off, to an existing room
func (s *Store) AddDevice(roomName, deviceName string, deviceType models.DeviceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.findRoom(roomName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomName)
	}

	if _, exists := s.findDevice(room.ID, deviceName); exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateDeviceName, roomName, deviceName)
	}

	device := Device{
		RoomID: room.ID,
		Name:   deviceName,
		IsOn:   false,
		Type:   deviceType,
	}
	id := s.devices.Allocate()

	if err := s.persister.InsertDevice(id, device); err != nil {
		return storageError(err)
	}

	s.devices.Put(id, device)
	return nil
}

//RemoveDevice removes a single device from a room
func (s *Store) RemoveDevice(roomName, deviceName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	device, err := s.resolveDevice(roomName, deviceName)
	if err != nil {
		return err
	}

	if err := s.persister.DeleteDevice(device.ID); err != nil {
		return storageError(err)
	}

	s.devices.Delete(device.ID)
	return nil
}

//SwitchDevice turns a device on or off
func (s *Store) SwitchDevice(roomName, deviceName string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	device, err := s.resolveDevice(roomName, deviceName)
	if err != nil {
		return err
	}

	if device.Value.IsOn == on {
		return nil
	}

	updated := device.Value
	updated.IsOn = on

	if err := s.persister.UpdateDevice(device.ID, updated); err != nil {
		return storageError(err)
	}

	device.Value = updated
	return nil
}

//Devices lists the devices of a room in the order they were added. A room without
//devices yields an empty slice.
func (s *Store) Devices(roomName string) ([]models.DeviceView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.findRoom(roomName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomName)
	}

	views := []models.DeviceView{}
	for row := range s.devices.Scan() {
		if row.Value.RoomID == room.ID {
			views = append(views, models.DeviceView{
				DeviceName: row.Value.Name,
				IsOn:       row.Value.IsOn,
				DeviceType: row.Value.Type,
			})
		}
	}

	return views, nil
}

//Counts returns the number of rooms and devices currently stored
func (s *Store) Counts() (rooms, devices int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rooms.Len(), s.devices.Len()
}

func (s *Store) findRoom(name string) (*table.Row[Room], bool) {
	return s.rooms.Find(func(r *table.Row[Room]) bool {
		return r.Value.Name == name
	})
}

func (s *Store) findDevice(roomID table.ID, name string) (*table.Row[Device], bool) {
	return s.devices.Find(func(d *table.Row[Device]) bool {
		return d.Value.RoomID == roomID && d.Value.Name == name
	})
}

func (s *Store) resolveDevice(roomName, deviceName string) (*table.Row[Device], error) {
	room, ok := s.findRoom(roomName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomName)
	}

	device, ok := s.findDevice(room.ID, deviceName)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrDeviceNotFound, roomName, deviceName)
	}

	return device, nil
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
