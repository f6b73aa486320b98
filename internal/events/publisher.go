// Package events publishes build reports over NATS so downstream tooling
// (deploy hooks, dashboards) can react to completed runs.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const publishTimeout = 5 * time.Second

// Publisher emits one JSON message per completed build.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the NATS server. Connection failure is the
// caller's decision to treat as fatal or not; build semantics do not depend
// on event delivery.
func NewPublisher(url, subject string) (*Publisher, error) {
	if subject == "" {
		return nil, fmt.Errorf("events subject is required")
	}
	conn, err := nats.Connect(url, nats.Name("prettysite"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

// PublishReport marshals the report and publishes it, flushing before return.
func (p *Publisher) PublishReport(report any) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish build report: %w", err)
	}
	if err := p.conn.FlushTimeout(publishTimeout); err != nil {
		return fmt.Errorf("flush build report: %w", err)
	}
	slog.Debug("Build report published", "subject", p.subject, "bytes", len(payload))
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
