package monitor

import (
	"strings"
	"testing"
	"time"
)

func snapshotFixture() StatusSnapshot {
	return StatusSnapshot{
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Primary:   PrimaryStatus{Region: "us-west", RecordCount: 1000, MaxID: 1000},
		Replicas: []ReplicaStatus{
			{Region: "us-east", RecordCount: 1000, MaxID: 1000, Healthy: true},
			{Region: "eu-west", RecordCount: 985, MaxID: 985, LagRecords: 15, LagIDs: 15},
		},
	}
}

func TestReportFormatsHealthAndLag(t *testing.T) {
	m := New(testConfig(), testLogger())
	report := m.Report(snapshotFixture())
	for _, want := range []string{
		"PRIMARY (us-west):",
		"Total Records: 1000",
		"US-EAST: HEALTHY",
		"EU-WEST: LAGGING",
		"Lag: 15 records",
		"Behind by 15 records",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("expected report to contain %q, got:\n%s", want, report)
		}
	}
	if strings.Contains(report, "ACTIVE ALERTS") {
		t.Fatalf("expected no active alerts section without alerts")
	}
}

func TestReportFormatsErrorEntry(t *testing.T) {
	m := New(testConfig(), testLogger())
	snapshot := snapshotFixture()
	snapshot.Replicas[1] = ReplicaStatus{Region: "eu-west", Err: "connection refused"}
	report := m.Report(snapshot)
	if !strings.Contains(report, "EU-WEST: ERROR") {
		t.Fatalf("expected error heading, got:\n%s", report)
	}
	if !strings.Contains(report, "connection refused") {
		t.Fatalf("expected error message in report")
	}
}

func TestReportCountsActiveAlerts(t *testing.T) {
	m := New(testConfig(), testLogger())
	snapshot := snapshotFixture()
	snapshot.Timestamp = time.Now().UTC().Add(-time.Second)
	m.raiseAlert("eu-west", 15)
	report := m.Report(snapshot)
	if !strings.Contains(report, "ACTIVE ALERTS: 1") {
		t.Fatalf("expected active alert count, got:\n%s", report)
	}
}

func TestReportIsPure(t *testing.T) {
	m := New(testConfig(), testLogger())
	snapshot := snapshotFixture()
	_ = m.Report(snapshot)
	if len(m.History()) != 0 || len(m.Alerts()) != 0 {
		t.Fatalf("expected report to leave state untouched")
	}
}

func TestSummaryShowsLastFiveAlerts(t *testing.T) {
	m := New(testConfig(), testLogger())
	for i := int64(0); i < 7; i++ {
		m.raiseAlert("us-east", 10+i)
	}
	summary := m.Summary(30 * time.Second)
	if !strings.Contains(summary, "Duration: 30s") {
		t.Fatalf("expected duration line, got:\n%s", summary)
	}
	if !strings.Contains(summary, "Total Alerts: 7") {
		t.Fatalf("expected total alerts, got:\n%s", summary)
	}
	if got := strings.Count(summary, "High replication lag detected"); got != 5 {
		t.Fatalf("expected 5 alert lines, got %d", got)
	}
	if !strings.Contains(summary, "16 records behind") {
		t.Fatalf("expected most recent alert in summary")
	}
	if strings.Contains(summary, "11 records behind") {
		t.Fatalf("expected oldest alerts trimmed from summary")
	}
}
