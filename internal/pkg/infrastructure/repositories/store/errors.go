package store

import "errors"

var (
	//ErrDuplicateRoomName is returned when a room with the same name already exists
	ErrDuplicateRoomName = errors.New("room name already in use")
	//ErrDuplicateDeviceName is returned when the room already has a device with the same name
	ErrDuplicateDeviceName = errors.New("device name already in use in room")
	//ErrRoomNotFound is returned when no room matches the given name
	ErrRoomNotFound = errors.New("no such room")
	//ErrDeviceNotFound is returned when the room has no device with the given name
	ErrDeviceNotFound = errors.New("no such device")
	//ErrStorage wraps failures reported by the Persister
	ErrStorage = errors.New("storage failure")
)
