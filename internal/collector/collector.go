package collector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"

	"fleetwatch/internal/machine"
)

// Collector gathers one resource snapshot of the local machine per call.
type Collector struct {
	machineID string
	logger    *slog.Logger
}

// New creates a collector. An empty machineID means derive one from the
// primary network interface's MAC address, falling back to the hostname.
func New(machineID string, logger *slog.Logger) *Collector {
	l := logger.With("component", "collector")
	if machineID == "" {
		machineID = deriveMachineID(l)
	}
	return &Collector{machineID: machineID, logger: l}
}

// MachineID returns the identifier this collector reports under.
func (c *Collector) MachineID() string {
	return c.machineID
}

// Collect gathers a full report. Individual probe failures degrade to the
// documented defaults instead of failing the whole report: a machine with an
// unreadable disk should still report its CPU.
func (c *Collector) Collect(ctx context.Context) machine.Report {
	rep := machine.Report{
		MachineID:    c.machineID,
		Snapshot:     machine.DefaultSnapshot(),
		OnlineStatus: string(machine.StatusOnline),
	}

	if hostname, err := os.Hostname(); err == nil {
		rep.Hostname = hostname
	}
	rep.IPAddress = primaryIP()

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		rep.CPU.Model = infos[0].ModelName
	} else if err != nil {
		c.logger.Warn("cpu info unavailable", "error", err)
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		rep.CPU.Cores = cores
	}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		rep.CPU.UsagePercent = percents[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		rep.Memory.Total = fmt.Sprintf("%.2f GB", float64(vm.Total)/(1<<30))
		rep.Memory.Available = fmt.Sprintf("%.2f GB", float64(vm.Available)/(1<<30))
		rep.Memory.UsagePercent = vm.UsedPercent
	} else {
		c.logger.Warn("memory info unavailable", "error", err)
	}

	if du, err := disk.UsageWithContext(ctx, rootPath()); err == nil {
		rep.Storage.Total = formatCapacity(du.Total)
		rep.Storage.Free = formatCapacity(du.Free)
		rep.Storage.UsagePercent = du.UsedPercent
	} else {
		c.logger.Warn("disk info unavailable", "error", err)
	}

	return rep
}

// deriveMachineID picks the MAC address of the primary network interface,
// matching the prefixes of common wired and wireless interface names.
func deriveMachineID(logger *slog.Logger) string {
	ifaces, err := psnet.Interfaces()
	if err == nil {
		for _, iface := range ifaces {
			if !hasPrimaryPrefix(iface.Name) || iface.HardwareAddr == "" {
				continue
			}
			return iface.HardwareAddr
		}
	} else {
		logger.Warn("interface enumeration failed", "error", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		logger.Error("hostname fallback failed", "error", err)
		return "unknown-machine"
	}
	return hostname
}

// primaryIP returns the IPv4 address of the primary interface, or "".
func primaryIP() string {
	ifaces, err := psnet.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if !hasPrimaryPrefix(iface.Name) {
			continue
		}
		for _, addr := range iface.Addrs {
			ip := strings.SplitN(addr.Addr, "/", 2)[0]
			if ip != "" && !strings.Contains(ip, ":") { // skip IPv6
				return ip
			}
		}
	}
	return ""
}

// rootPath is the filesystem whose capacity the storage descriptor reports.
func rootPath() string {
	if runtime.GOOS == "windows" {
		return "C:"
	}
	return "/"
}

var primaryPrefixes = []string{"eth", "wlan", "en", "wlp", "wls"}

func hasPrimaryPrefix(name string) bool {
	for _, p := range primaryPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// formatCapacity renders a byte count the way dashboards expect:
// terabytes and gigabytes to two decimals, small values in raw bytes.
func formatCapacity(bytes uint64) string {
	switch {
	case bytes >= 1<<40:
		return fmt.Sprintf("%.2f T", float64(bytes)/(1<<40))
	case bytes >= 1<<30:
		return fmt.Sprintf("%.2f G", float64(bytes)/(1<<30))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
