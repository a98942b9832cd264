package bus

import (
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Stream configuration for JetStream.
var StreamConfigs = []jetstream.StreamConfig{
	{
		Name:        "MACHINE_STATUS",
		Description: "Raw machine status reports and status corrections",
		Subjects:    []string{"machine_status.>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Discard:     jetstream.DiscardOld,
	},
	{
		Name:        "FLEET_EVENTS",
		Description: "Machine online/offline transition notifications",
		Subjects:    []string{"fleet.>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour, // 7 days
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Discard:     jetstream.DiscardOld,
	},
}
