package monitor

import "time"

const (
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// Lag thresholds, in records behind the primary. A replica at or past
// unhealthyLag is flagged and alerted; at or past criticalLag the alert
// escalates.
const (
	unhealthyLag int64 = 10
	criticalLag  int64 = 50
)

type PrimaryStatus struct {
	Region      string `json:"region"`
	RecordCount int64  `json:"record_count"`
	MaxID       int64  `json:"max_id"`
}

// ReplicaStatus is one replica's metrics at a poll instant. When the
// replica query failed, Err carries the failure and the metric and lag
// fields are zero. Lag may be negative: reads are not taken under a shared
// snapshot, so a replica can transiently report more rows than the primary
// did. Negative lag counts as healthy.
type ReplicaStatus struct {
	Region      string `json:"region"`
	RecordCount int64  `json:"record_count"`
	MaxID       int64  `json:"max_id"`
	LagRecords  int64  `json:"lag_records"`
	LagIDs      int64  `json:"lag_ids"`
	Healthy     bool   `json:"is_healthy"`
	Err         string `json:"error,omitempty"`
}

// StatusSnapshot is one poll cycle's consolidated view. Replicas appear in
// configuration order. Immutable once built.
type StatusSnapshot struct {
	Timestamp time.Time       `json:"timestamp"`
	Primary   PrimaryStatus   `json:"primary"`
	Replicas  []ReplicaStatus `json:"replicas"`
}

type Alert struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Region    string    `json:"region"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	LagCount  int64     `json:"lag_count"`
}
