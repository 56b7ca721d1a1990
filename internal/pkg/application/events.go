package application

import (
	"time"
)

const (
	topicRoomAdded      = "smarthouse.room.added"
	topicRoomRemoved    = "smarthouse.room.removed"
	topicDeviceAdded    = "smarthouse.device.added"
	topicDeviceRemoved  = "smarthouse.device.removed"
	topicDeviceSwitched = "smarthouse.device.switched"
)

//RoomEvent is published on the message queue when a room is added or removed
type RoomEvent struct {
	topic     string
	Room      string `json:"room"`
	Timestamp string `json:"timestamp"`
}

//ContentType returns the content type of the serialized event
func (e *RoomEvent) ContentType() string {
	return "application/json"
}

//TopicName returns the topic that the event is published on
func (e *RoomEvent) TopicName() string {
	return e.topic
}

//DeviceEvent is published on the message queue when a device is added, removed or switched
type DeviceEvent struct {
	topic      string
	Room       string `json:"room"`
	Device     string `json:"device"`
	DeviceType string `json:"deviceType,omitempty"`
	IsOn       *bool  `json:"isOn,omitempty"`
	Timestamp  string `json:"timestamp"`
}

//ContentType returns the content type of the serialized event
func (e *DeviceEvent) ContentType() string {
	return "application/json"
}

//TopicName returns the topic that the event is published on
func (e *DeviceEvent) TopicName() string {
	return e.topic
}

func newRoomEvent(topic, room string) *RoomEvent {
	return &RoomEvent{topic: topic, Room: room, Timestamp: now()}
}

func newDeviceEvent(topic, room, device string) *DeviceEvent {
	return &DeviceEvent{topic: topic, Room: room, Device: device, Timestamp: now()}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
