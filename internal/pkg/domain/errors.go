package domain

import (
	"errors"
	"fmt"

	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/repositories/store"
)

var (
	//ErrWrongRequestData is returned when the input is rejected before reaching the store
	ErrWrongRequestData = errors.New("wrong request data")
	//ErrDuplicateRoomName is returned when a room with the same name already exists
	ErrDuplicateRoomName = errors.New("room already exists")
	//ErrDuplicateDeviceName is returned when the room already has a device with the same name
	ErrDuplicateDeviceName = errors.New("device already exists")
	//ErrRoomNotFound is returned when the referenced room does not exist
	ErrRoomNotFound = errors.New("room doesn't exist")
	//ErrDeviceNotFound is returned when the referenced device does not exist in the room
	ErrDeviceNotFound = errors.New("device doesn't exist")
	//ErrServer is returned when the store fails for reasons unrelated to the request
	ErrServer = errors.New("server error")
)

var storeErrors = []struct {
	from error
	to   error
}{
	{store.ErrDuplicateRoomName, ErrDuplicateRoomName},
	{store.ErrDuplicateDeviceName, ErrDuplicateDeviceName},
	{store.ErrRoomNotFound, ErrRoomNotFound},
	{store.ErrDeviceNotFound, ErrDeviceNotFound},
}

func translate(err error, subject string) error {
	if err == nil {
		return nil
	}

	for _, e := range storeErrors {
		if errors.Is(err, e.from) {
			return fmt.Errorf("%w: %s", e.to, subject)
		}
	}

	return fmt.Errorf("%w: %w", ErrServer, err)
}
