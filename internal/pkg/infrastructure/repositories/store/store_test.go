package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/repositories/table"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/models"
)

func TestThatRoomNamesAreUnique(t *testing.T) {
	s := NewInMemory()

	require.NoError(t, s.AddRoom("Kitchen"))
	err := s.AddRoom("Kitchen")

	assert.ErrorIs(t, err, ErrDuplicateRoomName)
	assert.Equal(t, []string{"Kitchen"}, s.Rooms())
}

func TestThatDeviceNamesAreUniquePerRoom(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.AddRoom("R1"))
	require.NoError(t, s.AddRoom("R2"))

	assert.NoError(t, s.AddDevice("R1", "D1", models.Socket))
	assert.NoError(t, s.AddDevice("R2", "D1", models.Socket))
	assert.ErrorIs(t, s.AddDevice("R1", "D1", models.Thermo), ErrDuplicateDeviceName)

	devices, err := s.Devices("R1")
	require.NoError(t, err)
	assert.Equal(t, []models.DeviceView{{DeviceName: "D1", IsOn: false, DeviceType: models.Socket}}, devices)
}

func TestThatAddDeviceRequiresExistingRoom(t *testing.T) {
	s := NewInMemory()

	err := s.AddDevice("Nowhere", "D1", models.Socket)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, devices := s.Counts()
	assert.Equal(t, 0, devices)
}

func TestThatRemoveRoomCascadesToDevices(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.AddRoom("R"))
	require.NoError(t, s.AddRoom("Other"))
	require.NoError(t, s.AddDevice("R", "D1", models.Socket))
	require.NoError(t, s.AddDevice("R", "D2", models.Thermo))
	require.NoError(t, s.AddDevice("Other", "D1", models.Thermo))

	require.NoError(t, s.RemoveRoom("R"))

	_, err := s.Devices("R")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, s.RemoveDevice("R", "D1"), ErrRoomNotFound)

	rooms, devices := s.Counts()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 1, devices)

	// a new room with the old name must not inherit the old devices
	require.NoError(t, s.AddRoom("R"))
	list, err := s.Devices("R")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestThatRemoveRoomFailsForUnknownRoom(t *testing.T) {
	s := NewInMemory()
	assert.ErrorIs(t, s.RemoveRoom("Attic"), ErrRoomNotFound)
}

func TestThatReaddedRoomGetsNewIdentifier(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.AddRoom("Kitchen"))
	first, err := s.RoomID("Kitchen")
	require.NoError(t, err)

	require.NoError(t, s.RemoveRoom("Kitchen"))
	require.NoError(t, s.AddRoom("Kitchen"))
	second, err := s.RoomID("Kitchen")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRoomRoundTrip(t *testing.T) {
	s := NewInMemory()
	assert.NotNil(t, s.Rooms())
	assert.Empty(t, s.Rooms())

	require.NoError(t, s.AddRoom("Kitchen"))
	assert.Equal(t, []string{"Kitchen"}, s.Rooms())

	require.NoError(t, s.RemoveRoom("Kitchen"))
	assert.NotContains(t, s.Rooms(), "Kitchen")
}

func TestBedroomLampScenario(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.AddRoom("Bedroom"))
	require.NoError(t, s.AddDevice("Bedroom", "Lamp", models.Socket))

	devices, err := s.Devices("Bedroom")
	require.NoError(t, err)
	assert.Equal(t, []models.DeviceView{{DeviceName: "Lamp", IsOn: false, DeviceType: models.Socket}}, devices)

	require.NoError(t, s.RemoveDevice("Bedroom", "Lamp"))
	assert.ErrorIs(t, s.RemoveDevice("Bedroom", "Lamp"), ErrDeviceNotFound)

	devices, err = s.Devices("Bedroom")
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestThatDevicesAreListedInInsertionOrder(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.AddRoom("Hall"))
	require.NoError(t, s.AddRoom("Den"))
	require.NoError(t, s.AddDevice("Hall", "c", models.Socket))
	require.NoError(t, s.AddDevice("Den", "x", models.Socket))
	require.NoError(t, s.AddDevice("Hall", "a", models.Thermo))
	require.NoError(t, s.AddDevice("Hall", "b", models.Socket))

	devices, err := s.Devices("Hall")
	require.NoError(t, err)

	names := []string{}
	for _, d := range devices {
		names = append(names, d.DeviceName)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestSwitchDevice(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.AddRoom("Hall"))
	require.NoError(t, s.AddDevice("Hall", "Heater", models.Socket))

	require.NoError(t, s.SwitchDevice("Hall", "Heater", true))
	devices, _ := s.Devices("Hall")
	assert.True(t, devices[0].IsOn)

	assert.ErrorIs(t, s.SwitchDevice("Hall", "Fan", true), ErrDeviceNotFound)
	assert.ErrorIs(t, s.SwitchDevice("Cellar", "Heater", true), ErrRoomNotFound)
}

func TestThatConcurrentAddsOfSameRoomOnlySucceedOnce(t *testing.T) {
	s := NewInMemory()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.AddRoom("Garage") == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
			s.Rooms()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, []string{"Garage"}, s.Rooms())
}

func TestThatFailedPersistenceLeavesStoreUnchanged(t *testing.T) {
	p := &persisterMock{}
	s, err := New(p)
	require.NoError(t, err)

	require.NoError(t, s.AddRoom("Kitchen"))
	require.NoError(t, s.AddDevice("Kitchen", "Kettle", models.Socket))

	p.err = errors.New("disk full")

	assert.ErrorIs(t, s.AddRoom("Hall"), ErrStorage)
	assert.ErrorIs(t, s.AddDevice("Kitchen", "Toaster", models.Socket), ErrStorage)
	assert.ErrorIs(t, s.RemoveDevice("Kitchen", "Kettle"), ErrStorage)
	assert.ErrorIs(t, s.SwitchDevice("Kitchen", "Kettle", true), ErrStorage)
	assert.ErrorIs(t, s.RemoveRoom("Kitchen"), ErrStorage)

	assert.Equal(t, []string{"Kitchen"}, s.Rooms())
	devices, err := s.Devices("Kitchen")
	require.NoError(t, err)
	assert.Equal(t, []models.DeviceView{{DeviceName: "Kettle", IsOn: false, DeviceType: models.Socket}}, devices)
}

func TestThatMutationsArePersisted(t *testing.T) {
	p := &persisterMock{}
	s, err := New(p)
	require.NoError(t, err)

	require.NoError(t, s.AddRoom("Kitchen"))
	require.NoError(t, s.AddDevice("Kitchen", "Kettle", models.Socket))
	require.NoError(t, s.SwitchDevice("Kitchen", "Kettle", true))
	require.NoError(t, s.RemoveRoom("Kitchen"))

	assert.Equal(t, []string{"insert room 1", "insert device 1", "update device 1", "delete room 1"}, p.calls)
}

func TestThatNewRestoresSnapshot(t *testing.T) {
	p := &persisterMock{
		snapshot: &Snapshot{
			Rooms: []table.Row[Room]{
				{ID: 2, Value: Room{Name: "Kitchen"}},
				{ID: 5, Value: Room{Name: "Hall"}},
			},
			Devices: []table.Row[Device]{
				{ID: 3, Value: Device{RoomID: 5, Name: "Lamp", IsOn: true, Type: models.Socket}},
			},
			LastRoomID:   7,
			LastDeviceID: 4,
		},
	}

	s, err := New(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"Kitchen", "Hall"}, s.Rooms())
	devices, err := s.Devices("Hall")
	require.NoError(t, err)
	assert.Equal(t, []models.DeviceView{{DeviceName: "Lamp", IsOn: true, DeviceType: models.Socket}}, devices)

	require.NoError(t, s.AddRoom("Attic"))
	id, _ := s.RoomID("Attic")
	assert.Equal(t, table.ID(8), id)

	require.NoError(t, s.AddDevice("Attic", "Fan", models.Socket))
	assert.Equal(t, "insert device 5", p.calls[len(p.calls)-1])
}

func TestThatNewRejectsDanglingDevices(t *testing.T) {
	p := &persisterMock{
		snapshot: &Snapshot{
			Devices: []table.Row[Device]{
				{ID: 1, Value: Device{RoomID: 9, Name: "Orphan"}},
			},
		},
	}

	_, err := New(p)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestThatNewFailsWhenLoadFails(t *testing.T) {
	_, err := New(&persisterMock{loadErr: errors.New("no such table")})
	assert.ErrorIs(t, err, ErrStorage)
}

type persisterMock struct {
	snapshot *Snapshot
	loadErr  error
	err      error
	calls    []string
}

func (p *persisterMock) Load() (*Snapshot, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	if p.snapshot == nil {
		return &Snapshot{}, nil
	}
	return p.snapshot, nil
}

func (p *persisterMock) record(format string, id table.ID) error {
	if p.err != nil {
		return p.err
	}
	p.calls = append(p.calls, fmt.Sprintf(format, id))
	return nil
}

func (p *persisterMock) InsertRoom(id table.ID, room Room) error {
	return p.record("insert room %d", id)
}

func (p *persisterMock) DeleteRoom(id table.ID) error {
	return p.record("delete room %d", id)
}

func (p *persisterMock) InsertDevice(id table.ID, device Device) error {
	return p.record("insert device %d", id)
}

func (p *persisterMock) UpdateDevice(id table.ID, device Device) error {
	return p.record("update device %d", id)
}

func (p *persisterMock) DeleteDevice(id table.ID) error {
	return p.record("delete device %d", id)
}
