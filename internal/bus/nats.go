package bus

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"replmon/internal/monitor"
)

const alertSubject = "replication.alert"

// Publisher forwards raised alerts onto NATS for downstream consumers.
type Publisher struct {
	Conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Publisher{Conn: conn}, nil
}

func (p *Publisher) Publish(alert monitor.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	if err := p.Conn.Publish(alertSubject, payload); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.Conn != nil {
		p.Conn.Drain()
		p.Conn.Close()
	}
}
