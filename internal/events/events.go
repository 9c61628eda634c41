package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mvickery/hearth-core/internal/infrastructure/logging"
	"github.com/mvickery/hearth-core/internal/infrastructure/mqtt"
)

// Kind classifies a trigger record.
type Kind string

// Record kinds.
const (
	KindTimerFired     Kind = "timer_fired"
	KindTimerExpired   Kind = "timer_expired"
	KindCalendarFired  Kind = "calendar_fired"
	KindAlertTriggered Kind = "alert_triggered"
	KindSceneExecuted  Kind = "scene_executed"
	KindDeviceToggled  Kind = "device_toggled"
)

// Record is one human-readable trigger record: something the automation
// core did on an owner's behalf, or observed crossing a threshold.
type Record struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"owner_id"`
	Kind    Kind      `json:"kind"`
	Device  string    `json:"device,omitempty"`
	Action  string    `json:"action,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Publisher is the slice of the MQTT client the recorder needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// Broadcaster pushes a record to connected UI clients.
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Recorder fans trigger records out to the log, the MQTT event bus, and
// any connected websocket clients. Both sinks are optional; a nil
// publisher or broadcaster is skipped. Emission never fails the caller:
// a bus publish error is logged and dropped.
type Recorder struct {
	logger *logging.Logger
	pub    Publisher
	bc     Broadcaster
	topics mqtt.Topics
}

// NewRecorder creates a recorder. logger may be nil (the default logger
// is used); pub and bc may be nil to disable those sinks.
func NewRecorder(logger *logging.Logger, pub Publisher, bc Broadcaster) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{logger: logger, pub: pub, bc: bc}
}

// Emit stamps and distributes one trigger record.
func (r *Recorder) Emit(rec Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	r.logger.Info("trigger record",
		"kind", string(rec.Kind),
		"owner_id", rec.OwnerID,
		"device", rec.Device,
		"action", rec.Action,
		"message", rec.Message,
	)

	payload, err := json.Marshal(rec)
	if err != nil {
		r.logger.Error("encoding trigger record", "error", err)
		return
	}

	if r.pub != nil && r.pub.IsConnected() {
		topics := []string{r.topics.Event(string(rec.Kind))}
		if rec.OwnerID != "" {
			topics = append(topics, r.topics.OwnerEvent(rec.OwnerID, string(rec.Kind)))
		}
		for _, topic := range topics {
			if err := r.pub.Publish(topic, payload, 0, false); err != nil {
				r.logger.Warn("publishing trigger record", "topic", topic, "error", err)
			}
		}
	}

	if r.bc != nil {
		r.bc.Broadcast(payload)
	}
}
