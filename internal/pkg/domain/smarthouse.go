package domain

import (
	"fmt"
	"strings"

	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/models"
)

//Store is the relational store that the smart house operations delegate to
type Store interface {
	AddRoom(name string) error
	RemoveRoom(name string) error
	Rooms() []string
	AddDevice(roomName, deviceName string, deviceType models.DeviceType) error
	RemoveDevice(roomName, deviceName string) error
	SwitchDevice(roomName, deviceName string, on bool) error
	Devices(roomName string) ([]models.DeviceView, error)
}

//SmartHouse validates requests and maps store outcomes to domain errors
type SmartHouse struct {
	store Store
}

//NewSmartHouse creates a SmartHouse on top of a store
func NewSmartHouse(store Store) *SmartHouse {
	return &SmartHouse{store: store}
}

func (sh *SmartHouse) AddRoom(name string) error {
	if err := requireName("room", name); err != nil {
		return err
	}
	return translate(sh.store.AddRoom(name), name)
}

func (sh *SmartHouse) RemoveRoom(name string) error {
	if err := requireName("room", name); err != nil {
		return err
	}
	return translate(sh.store.RemoveRoom(name), name)
}

//Rooms returns the names of all rooms. No rooms is not an error.
func (sh *SmartHouse) Rooms() []string {
	return sh.store.Rooms()
}

//AddDevice parses the device type token and adds a switched off device to the room
func (sh *SmartHouse) AddDevice(roomName, deviceName, deviceType string) error {
	if err := requireNames(roomName, deviceName); err != nil {
		return err
	}

	t, err := models.ParseDeviceType(deviceType)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrongRequestData, err)
	}

	return translate(sh.store.AddDevice(roomName, deviceName, t), roomName+"/"+deviceName)
}

func (sh *SmartHouse) RemoveDevice(roomName, deviceName string) error {
	if err := requireNames(roomName, deviceName); err != nil {
		return err
	}
	return translate(sh.store.RemoveDevice(roomName, deviceName), roomName+"/"+deviceName)
}

func (sh *SmartHouse) SwitchDevice(roomName, deviceName string, on bool) error {
	if err := requireNames(roomName, deviceName); err != nil {
		return err
	}
	return translate(sh.store.SwitchDevice(roomName, deviceName, on), roomName+"/"+deviceName)
}

//Devices lists the devices of a room. A room without devices gives an empty list.
func (sh *SmartHouse) Devices(roomName string) ([]models.DeviceView, error) {
	if err := requireName("room", roomName); err != nil {
		return nil, err
	}

	devices, err := sh.store.Devices(roomName)
	if err != nil {
		return nil, translate(err, roomName)
	}

	return devices, nil
}

func requireName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s name must not be empty", ErrWrongRequestData, kind)
	}
	return nil
}

func requireNames(roomName, deviceName string) error {
	if err := requireName("room", roomName); err != nil {
		return err
	}
	return requireName("device", deviceName)
}
