package monitor

import (
	"fmt"
	"strings"
	"time"
)

const rule = "================================================================================"

func banner(title string) string {
	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString(title + "\n")
	b.WriteString(rule + "\n")
	return b.String()
}

// Report formats one snapshot as human-readable text. Pure; no state
// mutation.
func (m *Monitor) Report(snapshot StatusSnapshot) string {
	var b strings.Builder

	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "MULTI-REGION REPLICATION STATUS - %s\n", snapshot.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "\nPRIMARY (%s):\n", snapshot.Primary.Region)
	fmt.Fprintf(&b, "  Total Records: %d\n", snapshot.Primary.RecordCount)
	fmt.Fprintf(&b, "  Max ID: %d\n", snapshot.Primary.MaxID)

	b.WriteString("\nREPLICAS:\n")
	for _, replica := range snapshot.Replicas {
		if replica.Err != "" {
			fmt.Fprintf(&b, "\n  %s: ERROR\n", strings.ToUpper(replica.Region))
			fmt.Fprintf(&b, "    %s\n", replica.Err)
			continue
		}
		health := "HEALTHY"
		if !replica.Healthy {
			health = "LAGGING"
		}
		fmt.Fprintf(&b, "\n  %s: %s\n", strings.ToUpper(replica.Region), health)
		fmt.Fprintf(&b, "    Records: %d\n", replica.RecordCount)
		fmt.Fprintf(&b, "    Max ID: %d\n", replica.MaxID)
		fmt.Fprintf(&b, "    Lag: %d records\n", replica.LagRecords)
		if replica.LagRecords > 0 {
			fmt.Fprintf(&b, "    Status: Behind by %d records\n", replica.LagRecords)
		}
	}

	if active := m.activeAlerts(snapshot.Timestamp); active > 0 {
		fmt.Fprintf(&b, "\nACTIVE ALERTS: %d\n", active)
	}

	b.WriteString(rule + "\n")
	return b.String()
}

// activeAlerts counts alerts raised at or after the snapshot was taken,
// i.e. during the poll that produced it.
func (m *Monitor) activeAlerts(since time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, alert := range m.alerts {
		if !alert.Timestamp.Before(since) {
			count++
		}
	}
	return count
}

// Summary formats the end-of-run totals and the last five alerts.
func (m *Monitor) Summary(elapsed time.Duration) string {
	m.mu.Lock()
	history := len(m.history)
	alerts := make([]Alert, len(m.alerts))
	copy(alerts, m.alerts)
	m.mu.Unlock()

	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString("MONITORING SUMMARY\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Duration: %ds\n", int(elapsed.Seconds()))
	fmt.Fprintf(&b, "Metrics Collected: %d\n", history)
	fmt.Fprintf(&b, "Total Alerts: %d\n", len(alerts))

	if len(alerts) > 0 {
		b.WriteString("\nAlert Summary:\n")
		tail := alerts
		if len(tail) > 5 {
			tail = tail[len(tail)-5:]
		}
		for _, alert := range tail {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", alert.Timestamp.Format("2006-01-02 15:04:05"), alert.Region, alert.Message)
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}
