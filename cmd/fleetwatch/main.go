package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"fleetwatch/internal/machine"
	"fleetwatch/internal/store"
)

var (
	apiURL string
	format string
)

func main() {
	root := &cobra.Command{
		Use:   "fleetwatch",
		Short: "fleetwatch CLI — query the machine status monitor",
	}

	root.PersistentFlags().StringVar(&apiURL, "api", "", "monitor API URL (default http://localhost:8080)")
	root.PersistentFlags().StringVar(&format, "format", "table", "output format: table or json")

	machineCmd := &cobra.Command{Use: "machine", Short: "Inspect machines"}
	machineCmd.AddCommand(
		machineListCmd(),
		machineInspectCmd(),
		machineHistoryCmd(),
	)

	root.AddCommand(
		machineCmd,
		statusCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func getAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if v := os.Getenv("FLEETWATCH_API"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func apiGet(path string, out any) error {
	resp, err := http.Get(getAPIURL() + path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", path, apiErr.Error)
		}
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func machineListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all known machines",
		RunE: func(_ *cobra.Command, _ []string) error {
			var machines []machine.Record
			if err := apiGet("/api/machines", &machines); err != nil {
				return err
			}
			if format == "json" {
				return printJSON(machines)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "HOSTNAME\tMACHINE ID\tIP\tSTATUS\tCPU%\tMEM%\tDISK%\tLAST SEEN")
			for _, m := range machines {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%.1f\t%.1f\t%s\n",
					m.Snapshot.Hostname, m.ID, m.Snapshot.IPAddress, m.Status,
					m.Snapshot.CPU.UsagePercent,
					m.Snapshot.Memory.UsagePercent,
					m.Snapshot.Storage.UsagePercent,
					humanSince(m.LastSeen),
				)
			}
			return w.Flush()
		},
	}
}

func machineInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <machine-id>",
		Short: "Show one machine's full record",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var m machine.Record
			if err := apiGet("/api/machines/"+args[0], &m); err != nil {
				return err
			}
			if format == "json" {
				return printJSON(m)
			}

			fmt.Printf("Machine:   %s\n", m.ID)
			fmt.Printf("Hostname:  %s\n", m.Snapshot.Hostname)
			fmt.Printf("IP:        %s\n", m.Snapshot.IPAddress)
			fmt.Printf("Status:    %s\n", m.Status)
			fmt.Printf("Last seen: %s (%s)\n", m.LastSeen.Format(time.RFC3339), humanSince(m.LastSeen))
			fmt.Printf("CPU:       %.1f%% (%s, %d cores)\n",
				m.Snapshot.CPU.UsagePercent, m.Snapshot.CPU.Model, m.Snapshot.CPU.Cores)
			fmt.Printf("Memory:    %.1f%% (total %s, available %s)\n",
				m.Snapshot.Memory.UsagePercent, m.Snapshot.Memory.Total, m.Snapshot.Memory.Available)
			fmt.Printf("Storage:   %.1f%% (total %s, free %s)\n",
				m.Snapshot.Storage.UsagePercent, m.Snapshot.Storage.Total, m.Snapshot.Storage.Free)
			return nil
		},
	}
}

func machineHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <machine-id>",
		Short: "Show a machine's recent report history",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var entries []store.HistoryEntry
			path := fmt.Sprintf("/api/machines/%s/history?limit=%d", args[0], limit)
			if err := apiGet(path, &entries); err != nil {
				return err
			}
			if format == "json" {
				return printJSON(entries)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RECEIVED\tCPU%\tMEM%\tDISK%")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\n",
					e.ReceivedAt.Format(time.RFC3339), e.CPUUsage, e.MemoryUsage, e.StorageUsage)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to fetch")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show fleet-wide status summary",
		RunE: func(_ *cobra.Command, _ []string) error {
			var summary struct {
				Total    int            `json:"total"`
				ByStatus map[string]int `json:"by_status"`
			}
			if err := apiGet("/api/summary", &summary); err != nil {
				return err
			}
			if format == "json" {
				return printJSON(summary)
			}

			fmt.Printf("Machines: %d total", summary.Total)
			for _, s := range []string{"online", "offline", "unknown"} {
				if n := summary.ByStatus[s]; n > 0 {
					fmt.Printf(", %d %s", n, s)
				}
			}
			fmt.Println()
			return nil
		},
	}
}

func humanSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
