package bus

import "fmt"

// Subject hierarchy constants for the fleetwatch message bus.
const (
	// Inbound report subjects published by agents.
	SubjectReport        = "machine_status.report"
	SubjectMachineStatus = "machine_status.%s.status"

	// Outbound transition notification subjects.
	SubjectMachineOnline  = "fleet.machine.%s.online"
	SubjectMachineOffline = "fleet.machine.%s.offline"

	// Wildcard patterns for subscriptions.
	SubjectAllReports = "machine_status.>"
	SubjectAllFleet   = "fleet.>"
)

// MachineSubject returns a subject for a specific machine.
func MachineSubject(pattern, machineID string) string {
	return fmt.Sprintf(pattern, machineID)
}
