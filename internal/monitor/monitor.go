package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"replmon/internal/config"
	"replmon/internal/store"
)

const writesPerTick = 5

// Store is one endpoint's database surface. *store.Conn is the production
// implementation; tests substitute fakes.
type Store interface {
	Ping(ctx context.Context) error
	RecordCount(ctx context.Context, table string) (int64, error)
	MaxID(ctx context.Context, table string) (int64, error)
	Seed(ctx context.Context) error
	InsertTestRows(ctx context.Context, region string, count int) error
	Close() error
}

// Opener dials one endpoint. The default wraps store.Open.
type Opener func(ep config.Endpoint) (Store, error)

// AlertSink receives every raised alert. Publish errors are logged, never
// propagated; raising an alert cannot fail.
type AlertSink interface {
	Publish(alert Alert) error
}

// Monitor polls the primary and each replica for row count and max id,
// computes replication lag, and records snapshots and alerts in memory.
type Monitor struct {
	cfg    config.Config
	open   Opener
	logger *slog.Logger
	out    io.Writer
	sink   AlertSink

	mu      sync.Mutex
	conns   map[string]Store
	history []StatusSnapshot
	alerts  []Alert
}

type Option func(*Monitor)

func WithOpener(open Opener) Option {
	return func(m *Monitor) { m.open = open }
}

func WithAlertSink(sink AlertSink) Option {
	return func(m *Monitor) { m.sink = sink }
}

func WithOutput(out io.Writer) Option {
	return func(m *Monitor) { m.out = out }
}

func New(cfg config.Config, logger *slog.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:    cfg,
		logger: logger,
		open:   defaultOpener,
		out:    io.Discard,
		conns:  map[string]Store{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func defaultOpener(ep config.Endpoint) (Store, error) {
	return store.Open(ep)
}

// ConnectAll opens a connection per configured endpoint. Failures are
// logged and the successes kept; the return value is true only when every
// endpoint connected.
func (m *Monitor) ConnectAll(ctx context.Context) bool {
	m.logger.Info("connecting to all regions", slog.Int("endpoints", len(m.cfg.Endpoints)))
	connected := 0
	for _, ep := range m.cfg.Endpoints {
		conn, err := m.open(ep)
		if err == nil {
			err = conn.Ping(ctx)
			if err != nil {
				_ = conn.Close()
			}
		}
		if err != nil {
			m.logger.Error("failed to connect", slog.String("region", ep.Region), slog.String("error", err.Error()))
			continue
		}
		m.mu.Lock()
		m.conns[ep.Region] = conn
		m.mu.Unlock()
		connected++
		m.logger.Info("connected", slog.String("region", ep.Region), slog.String("role", ep.Role))
	}
	return connected == len(m.cfg.Endpoints)
}

// SeedPrimary destructively resets the monitor tables on the primary and
// loads the bulk seed rows. Idempotent: a second run leaves the same state.
func (m *Monitor) SeedPrimary(ctx context.Context) error {
	primary := m.cfg.Primary()
	conn, ok := m.conn(primary.Region)
	if !ok {
		return fmt.Errorf("primary %s not connected", primary.Region)
	}
	m.logger.Info("seeding primary database", slog.String("region", primary.Region))
	if err := conn.Seed(ctx); err != nil {
		return err
	}
	m.logger.Info("primary database initialized with test data")
	return nil
}

// SimulateWrites inserts count timestamped rows on the primary to
// manufacture lag.
func (m *Monitor) SimulateWrites(ctx context.Context, count int) error {
	primary := m.cfg.Primary()
	conn, ok := m.conn(primary.Region)
	if !ok {
		return fmt.Errorf("primary %s not connected", primary.Region)
	}
	if err := conn.InsertTestRows(ctx, primary.Region, count); err != nil {
		return err
	}
	m.logger.Info("wrote records to primary", slog.Int("count", count))
	return nil
}

// Poll reads the primary metrics, then each replica sequentially in
// configuration order. A replica query failure becomes an error entry in
// the snapshot and does not stop the remaining replicas; a primary query
// failure fails the poll. The snapshot is appended to history.
func (m *Monitor) Poll(ctx context.Context) (StatusSnapshot, error) {
	primary := m.cfg.Primary()
	conn, ok := m.conn(primary.Region)
	if !ok {
		return StatusSnapshot{}, fmt.Errorf("primary %s not connected", primary.Region)
	}
	primaryCount, err := conn.RecordCount(ctx, store.TestTable)
	if err != nil {
		return StatusSnapshot{}, err
	}
	primaryMaxID, err := conn.MaxID(ctx, store.TestTable)
	if err != nil {
		return StatusSnapshot{}, err
	}

	snapshot := StatusSnapshot{
		Timestamp: time.Now().UTC(),
		Primary: PrimaryStatus{
			Region:      primary.Region,
			RecordCount: primaryCount,
			MaxID:       primaryMaxID,
		},
	}

	for _, ep := range m.cfg.Replicas() {
		snapshot.Replicas = append(snapshot.Replicas, m.pollReplica(ctx, ep, snapshot.Primary))
	}

	m.mu.Lock()
	m.history = append(m.history, snapshot)
	m.mu.Unlock()
	return snapshot, nil
}

func (m *Monitor) pollReplica(ctx context.Context, ep config.Endpoint, primary PrimaryStatus) ReplicaStatus {
	conn, ok := m.conn(ep.Region)
	if !ok {
		m.logger.Error("replica not connected", slog.String("region", ep.Region))
		return ReplicaStatus{Region: ep.Region, Err: "not connected"}
	}
	count, err := conn.RecordCount(ctx, store.TestTable)
	if err != nil {
		m.logger.Error("error checking replica", slog.String("region", ep.Region), slog.String("error", err.Error()))
		return ReplicaStatus{Region: ep.Region, Err: err.Error()}
	}
	maxID, err := conn.MaxID(ctx, store.TestTable)
	if err != nil {
		m.logger.Error("error checking replica", slog.String("region", ep.Region), slog.String("error", err.Error()))
		return ReplicaStatus{Region: ep.Region, Err: err.Error()}
	}

	status := ReplicaStatus{
		Region:      ep.Region,
		RecordCount: count,
		MaxID:       maxID,
		LagRecords:  primary.RecordCount - count,
		LagIDs:      primary.MaxID - maxID,
	}
	status.Healthy = status.LagRecords < unhealthyLag
	if !status.Healthy {
		m.raiseAlert(ep.Region, status.LagRecords)
	}
	return status
}

// raiseAlert classifies severity and appends to the alert list. Always a
// side effect; never fails.
func (m *Monitor) raiseAlert(region string, lag int64) {
	severity := SeverityWarning
	if lag >= criticalLag {
		severity = SeverityCritical
	}
	alert := Alert{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Region:    region,
		Severity:  severity,
		Message:   fmt.Sprintf("High replication lag detected: %d records behind", lag),
		LagCount:  lag,
	}
	m.mu.Lock()
	m.alerts = append(m.alerts, alert)
	m.mu.Unlock()
	m.logger.Warn("replication lag alert", slog.String("region", region), slog.Int64("lag", lag), slog.String("severity", severity))
	if m.sink != nil {
		if err := m.sink.Publish(alert); err != nil {
			m.logger.Error("alert publish failed", slog.String("region", region), slog.String("error", err.Error()))
		}
	}
}

// Run drives the loop: connect, seed, wait a grace period for initial
// replication, then on each tick alternate simulated writes and polling,
// printing a report every other tick, until the wall-clock duration is
// exceeded or ctx is cancelled. Finishes by printing the run summary.
func (m *Monitor) Run(ctx context.Context, duration time.Duration) error {
	fmt.Fprint(m.out, banner("MULTI-REGION REPLICATION MONITOR"))

	if !m.ConnectAll(ctx) {
		m.Close()
		return errors.New("failed to connect to all regions")
	}
	defer m.Close()

	if err := m.SeedPrimary(ctx); err != nil {
		return err
	}

	m.logger.Info("waiting for initial replication")
	grace := time.Duration(m.cfg.Run.GraceSeconds) * time.Second
	if !sleep(ctx, grace) {
		fmt.Fprint(m.out, m.Summary(0))
		return nil
	}

	interval := time.Duration(m.cfg.Run.IntervalSeconds) * time.Second
	start := time.Now()
	iteration := 0

	for time.Since(start) < duration {
		iteration++

		if iteration%2 == 0 {
			if err := m.SimulateWrites(ctx, writesPerTick); err != nil {
				m.logger.Error("simulated writes failed", slog.String("error", err.Error()))
			}
		}

		snapshot, err := m.Poll(ctx)
		if err != nil {
			m.logger.Error("poll failed", slog.String("error", err.Error()))
		} else if iteration%2 == 0 {
			fmt.Fprint(m.out, m.Report(snapshot))
		}

		if !sleep(ctx, interval) {
			break
		}
	}

	fmt.Fprint(m.out, m.Summary(time.Since(start)))
	return nil
}

// sleep blocks for d, returning false if ctx was cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (m *Monitor) conn(region string) (Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.conns[region]
	return conn, ok
}

// LatestSnapshot returns the most recent poll result, if any.
func (m *Monitor) LatestSnapshot() (StatusSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return StatusSnapshot{}, false
	}
	return m.history[len(m.history)-1], true
}

// History returns a copy of every snapshot collected so far.
func (m *Monitor) History() []StatusSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := make([]StatusSnapshot, len(m.history))
	copy(results, m.history)
	return results
}

// Alerts returns a copy of every alert raised so far.
func (m *Monitor) Alerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := make([]Alert, len(m.alerts))
	copy(results, m.alerts)
	return results
}

// Close closes every open connection. Safe to call more than once.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for region, conn := range m.conns {
		if err := conn.Close(); err != nil {
			m.logger.Error("close connection", slog.String("region", region), slog.String("error", err.Error()))
		}
	}
	m.conns = map[string]Store{}
}
