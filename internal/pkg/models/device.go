package models

import (
	"errors"
	"fmt"
	"strings"
)

//ErrInvalidDeviceType is returned when a device type token is not recognised
var ErrInvalidDeviceType = errors.New("wrong device type")

//DeviceType enumerates the kinds of devices that can be placed in a room
type DeviceType int

const (
	//Socket is a switchable power socket
	Socket DeviceType = iota
	//Thermo is a thermometer
	Thermo
)

//ParseDeviceType converts a case insensitive token such as "socket" or "Thermo" into a DeviceType
func ParseDeviceType(token string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "socket":
		return Socket, nil
	case "thermo":
		return Thermo, nil
	}

	return Socket, fmt.Errorf("%w: %q", ErrInvalidDeviceType, token)
}

func (t DeviceType) String() string {
	switch t {
	case Socket:
		return "Socket"
	case Thermo:
		return "Thermo"
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

//MarshalText encodes the device type as its canonical name
func (t DeviceType) MarshalText() ([]byte, error) {
	if t != Socket && t != Thermo {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDeviceType, int(t))
	}
	return []byte(t.String()), nil
}

//UnmarshalText accepts the same tokens as ParseDeviceType
func (t *DeviceType) UnmarshalText(text []byte) error {
	parsed, err := ParseDeviceType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

//DeviceView is what callers get to see about a device when listing the devices in a room
type DeviceView struct {
	DeviceName string     `json:"device_name"`
	IsOn       bool       `json:"is_on"`
	DeviceType DeviceType `json:"device_type"`
}
