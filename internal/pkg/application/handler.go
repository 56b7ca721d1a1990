package application

import (
	"compress/flate"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"

	"github.com/iot-for-tillgenglighet/messaging-golang/pkg/messaging"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/domain"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/logging"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/metrics"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/models"
)

type RequestRouter struct {
	impl *chi.Mux
}

//Get accepts a pattern that should be routed to the handlerFn on a GET request
func (router *RequestRouter) Get(pattern string, handlerFn http.HandlerFunc) {
	router.impl.Get(pattern, handlerFn)
}

//Post accepts a pattern that should be routed to the handlerFn on a POST request
func (router *RequestRouter) Post(pattern string, handlerFn http.HandlerFunc) {
	router.impl.Post(pattern, handlerFn)
}

//Delete accepts a pattern that should be routed to the handlerFn on a DELETE request
func (router *RequestRouter) Delete(pattern string, handlerFn http.HandlerFunc) {
	router.impl.Delete(pattern, handlerFn)
}

func (router *RequestRouter) addSmartHouseHandlers(h *smartHouseHandlers) {
	router.Post("/smart-house/room/add", h.addRoom)
	router.Delete("/smart-house/room/remove", h.removeRoom)
	router.Get("/smart-house/room", h.rooms)
	router.Post("/smart-house/device/add", h.addDevice)
	router.Delete("/smart-house/device/remove", h.removeDevice)
	router.Post("/smart-house/device/switch", h.switchDevice)
	router.Get("/smart-house/device", h.devices)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if h.metrics != nil {
		router.impl.Handle("/metrics", h.metrics.Handler())
	}
}

func newRequestRouter() *RequestRouter {
	router := &RequestRouter{impl: chi.NewRouter()}

	router.impl.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
		Debug:            false,
	}).Handler)

	compressor := middleware.NewCompressor(flate.DefaultCompression, "application/json")
	router.impl.Use(compressor.Handler)
	router.impl.Use(middleware.Logger)

	return router
}

func createRequestRouter(h *smartHouseHandlers) *RequestRouter {
	router := newRequestRouter()
	router.addSmartHouseHandlers(h)
	return router
}

//MessagingContext is an interface that allows mocking of messaging.Context parameters
type MessagingContext interface {
	PublishOnTopic(message messaging.TopicMessage) error
}

//StoreStatistics reports how many rows the store currently holds
type StoreStatistics interface {
	Counts() (rooms, devices int)
}

//CreateRouterAndStartServing sets up the smart house router and starts serving incoming requests
func CreateRouterAndStartServing(log logging.Logger, messenger MessagingContext, house *domain.SmartHouse, stats StoreStatistics, m *metrics.Metrics, port string) {
	h := newSmartHouseHandlers(log, messenger, house, stats, m)
	router := createRequestRouter(h)

	log.Infof("Starting smart-house-registry on port %s.", port)
	log.Fatal(http.ListenAndServe(":"+port, router.impl))
}

type smartHouseHandlers struct {
	house     *domain.SmartHouse
	stats     StoreStatistics
	log       logging.Logger
	messenger MessagingContext
	metrics   *metrics.Metrics
}

func newSmartHouseHandlers(log logging.Logger, messenger MessagingContext, house *domain.SmartHouse, stats StoreStatistics, m *metrics.Metrics) *smartHouseHandlers {
	h := &smartHouseHandlers{
		house:     house,
		stats:     stats,
		log:       log,
		messenger: messenger,
		metrics:   m,
	}
	h.updateCounts()
	return h
}

type roomRequest struct {
	Name string `json:"name"`
}

type deviceRequest struct {
	RoomName   string `json:"room_name"`
	DeviceName string `json:"device_name"`
	DeviceType string `json:"device_type,omitempty"`
	IsOn       *bool  `json:"is_on,omitempty"`
}

func (h *smartHouseHandlers) addRoom(w http.ResponseWriter, r *http.Request) {
	req := roomRequest{}
	if !h.decodeBody(w, r, "add_room", &req) {
		return
	}

	err := h.house.AddRoom(req.Name)
	if h.failed(w, "add_room", "could not add room "+req.Name, err) {
		return
	}

	h.changed(newRoomEvent(topicRoomAdded, req.Name))
	writeText(w, http.StatusOK, "room "+req.Name+" added")
}

func (h *smartHouseHandlers) removeRoom(w http.ResponseWriter, r *http.Request) {
	roomName := r.URL.Query().Get("room_name")
	if roomName == "" {
		h.failed(w, "remove_room", "could not remove room", missingParameter("room_name"))
		return
	}

	err := h.house.RemoveRoom(roomName)
	if h.failed(w, "remove_room", "could not remove room "+roomName, err) {
		return
	}

	h.changed(newRoomEvent(topicRoomRemoved, roomName))
	writeText(w, http.StatusOK, "room "+roomName+" removed")
}

func (h *smartHouseHandlers) rooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.house.Rooms()
	h.metrics.Observe("list_rooms", outcome(nil))

	response := make([]roomRequest, 0, len(rooms))
	for _, name := range rooms {
		response = append(response, roomRequest{Name: name})
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *smartHouseHandlers) addDevice(w http.ResponseWriter, r *http.Request) {
	req := deviceRequest{}
	if !h.decodeBody(w, r, "add_device", &req) {
		return
	}

	err := h.house.AddDevice(req.RoomName, req.DeviceName, req.DeviceType)
	if h.failed(w, "add_device", "could not add device "+req.DeviceName, err) {
		return
	}

	event := newDeviceEvent(topicDeviceAdded, req.RoomName, req.DeviceName)
	if deviceType, err := models.ParseDeviceType(req.DeviceType); err == nil {
		event.DeviceType = deviceType.String()
	}
	h.changed(event)

	writeText(w, http.StatusOK, "device "+req.DeviceName+" added")
}

func (h *smartHouseHandlers) removeDevice(w http.ResponseWriter, r *http.Request) {
	req := deviceRequest{}
	if !h.decodeBody(w, r, "remove_device", &req) {
		return
	}

	err := h.house.RemoveDevice(req.RoomName, req.DeviceName)
	if h.failed(w, "remove_device", "could not remove device "+req.DeviceName, err) {
		return
	}

	h.changed(newDeviceEvent(topicDeviceRemoved, req.RoomName, req.DeviceName))
	writeText(w, http.StatusOK, "device "+req.DeviceName+" removed")
}

func (h *smartHouseHandlers) switchDevice(w http.ResponseWriter, r *http.Request) {
	req := deviceRequest{}
	if !h.decodeBody(w, r, "switch_device", &req) {
		return
	}

	if req.IsOn == nil {
		h.failed(w, "switch_device", "could not switch device "+req.DeviceName,
			fmt.Errorf("%w: missing is_on", domain.ErrWrongRequestData))
		return
	}

	err := h.house.SwitchDevice(req.RoomName, req.DeviceName, *req.IsOn)
	if h.failed(w, "switch_device", "could not switch device "+req.DeviceName, err) {
		return
	}

	isOn := *req.IsOn
	event := newDeviceEvent(topicDeviceSwitched, req.RoomName, req.DeviceName)
	event.IsOn = &isOn
	h.changed(event)

	state := "off"
	if isOn {
		state = "on"
	}
	writeText(w, http.StatusOK, "device "+req.DeviceName+" switched "+state)
}

func (h *smartHouseHandlers) devices(w http.ResponseWriter, r *http.Request) {
	roomName := r.URL.Query().Get("room_name")
	if roomName == "" {
		h.failed(w, "list_devices", "could not list devices", missingParameter("room_name"))
		return
	}

	devices, err := h.house.Devices(roomName)
	if h.failed(w, "list_devices", "could not list devices in room "+roomName, err) {
		return
	}

	h.writeJSON(w, http.StatusOK, devices)
}

func (h *smartHouseHandlers) decodeBody(w http.ResponseWriter, r *http.Request, operation string, into interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(into)
	if err != nil {
		h.failed(w, operation, "could not decode request body", fmt.Errorf("%w: %s", domain.ErrWrongRequestData, err.Error()))
		return false
	}
	return true
}

//failed records the outcome of an operation and, if err is not nil, writes an error response
func (h *smartHouseHandlers) failed(w http.ResponseWriter, operation, message string, err error) bool {
	h.metrics.Observe(operation, outcome(err))

	if err == nil {
		return false
	}

	status := statusCode(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf("%s failed: %s", operation, err.Error())
	} else {
		h.log.Debugf("%s rejected: %s", operation, err.Error())
	}

	writeText(w, status, message+": "+err.Error())
	return true
}

func (h *smartHouseHandlers) changed(message messaging.TopicMessage) {
	h.updateCounts()

	if h.messenger == nil {
		return
	}

	if err := h.messenger.PublishOnTopic(message); err != nil {
		h.log.Warnf("Failed to publish %s: %s", message.TopicName(), err.Error())
	}
}

func (h *smartHouseHandlers) updateCounts() {
	if h.stats != nil {
		h.metrics.SetCounts(h.stats.Counts())
	}
}

func (h *smartHouseHandlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	bytes, err := json.Marshal(body)
	if err != nil {
		h.log.Errorf("Failed to encode response: %s", err.Error())
		writeText(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Add("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(message))
}

func missingParameter(name string) error {
	return fmt.Errorf("%w: missing query parameter %s", domain.ErrWrongRequestData, name)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrWrongRequestData):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrDeviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRoomName), errors.Is(err, domain.ErrDuplicateDeviceName):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func outcome(err error) string {
	switch statusCode(err) {
	case http.StatusBadRequest:
		return "wrong_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "duplicate"
	}

	if err == nil {
		return "ok"
	}
	return "error"
}
