package bus

import (
	"log/slog"

	"fleetwatch/internal/events"
)

// Publisher is the subset of the client the notifier needs.
type Publisher interface {
	PublishEvent(subject, eventType string, payload any) error
}

// Notifier republishes machine transition events onto the fleet subjects so
// external alerting can react without polling the query API.
type Notifier struct {
	pub     Publisher
	logger  *slog.Logger
	emitter *events.Emitter
	handler int
}

// NewNotifier creates a transition notifier.
func NewNotifier(pub Publisher, logger *slog.Logger) *Notifier {
	return &Notifier{
		pub:    pub,
		logger: logger.With("component", "notifier"),
	}
}

// Register wires the notifier to the event emitter.
func (n *Notifier) Register(emitter *events.Emitter) {
	n.emitter = emitter
	n.handler = emitter.OnEvent(func(ev events.Event) {
		var subject, status string
		switch ev.Type {
		case events.MachineOnline:
			subject = MachineSubject(SubjectMachineOnline, ev.MachineID)
			status = "online"
		case events.MachineOffline:
			subject = MachineSubject(SubjectMachineOffline, ev.MachineID)
			status = "offline"
		default:
			return
		}

		err := n.pub.PublishEvent(subject, ev.Type, TransitionData{
			MachineID: ev.MachineID,
			Hostname:  ev.Fields["hostname"],
			Status:    status,
		})
		if err != nil {
			n.logger.Error("failed to publish transition", "subject", subject, "error", err)
		}
	})
}

// Detach unregisters the notifier's handler so no further transitions are
// published once shutdown has begun.
func (n *Notifier) Detach() {
	if n.emitter != nil {
		n.emitter.RemoveHandler(n.handler)
	}
}
