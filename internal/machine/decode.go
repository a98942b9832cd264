package machine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingMachineID marks a full report whose payload carries no machine_id.
var ErrMissingMachineID = errors.New("report missing machine_id")

// Report is the decoded form of a full-report payload. The snapshot fields
// are promoted into the wire object, so the JSON layout matches what agents
// publish: machine_id and online_status alongside the resource descriptors.
type Report struct {
	MachineID string `json:"machine_id"`
	Snapshot
	OnlineStatus string  `json:"online_status"`
	Timestamp    float64 `json:"timestamp,omitempty"`
}

// DecodeReport parses a full-report payload, applying the defaulting policy
// once: omitted strings become "Unknown" (IP stays empty), omitted numbers
// stay zero, omitted online_status means online. A missing machine_id is a
// decode failure, not a report for an anonymous machine.
func DecodeReport(data []byte) (Report, error) {
	r := Report{
		Snapshot:     DefaultSnapshot(),
		OnlineStatus: string(StatusOnline),
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	if r.MachineID == "" {
		return Report{}, ErrMissingMachineID
	}
	return r, nil
}

// Status returns the liveness status stated by the report. A full report is
// an affirmative sign of life, so only an explicit "offline" is taken at
// face value; anything else, including unrecognized strings, counts as
// online. Unknown is reserved for machines that have never been heard from.
func (r Report) Status() Status {
	if StatusFromString(r.OnlineStatus) == StatusOffline {
		return StatusOffline
	}
	return StatusOnline
}

// StatusUpdate is the decoded form of a status-only payload. The machine id
// is carried by the subject, not the payload.
type StatusUpdate struct {
	Status string `json:"status"`
}

// DecodeStatus parses a status-only payload.
func DecodeStatus(data []byte) (StatusUpdate, error) {
	var u StatusUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return StatusUpdate{}, fmt.Errorf("decode status: %w", err)
	}
	return u, nil
}
