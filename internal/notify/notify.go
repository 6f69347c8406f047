// Package notify announces completed scans on a NATS subject so other services
// can react to new reports.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "resourcescan.scans"

// ScanCompletedEvent is published once per successful run.
type ScanCompletedEvent struct {
	ScanID       string         `json:"scan_id"`
	Source       string         `json:"source"`
	BaseURL      string         `json:"base_url"`
	Output       string         `json:"output"`
	TotalLinks   int            `json:"total_links"`
	ByTypeCounts map[string]int `json:"by_type_counts"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Notifier publishes scan events.
type Notifier interface {
	Publish(ctx context.Context, event *ScanCompletedEvent) error
	Close()
}

// conn is the subset of *nats.Conn used for publishing.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSNotifier publishes events as JSON on a core NATS subject.
type NATSNotifier struct {
	conn    conn
	subject string
	now     func() time.Time
}

// NewNATSNotifier connects to url.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	nc, err := nats.Connect(url,
		nats.Name("resourcescan"),
		nats.Timeout(5*time.Second),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return newNATSNotifier(nc, subject), nil
}

func newNATSNotifier(c conn, subject string) *NATSNotifier {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSNotifier{conn: c, subject: subject, now: time.Now}
}

// Publish sends event and waits until the server has acknowledged it.
func (n *NATSNotifier) Publish(ctx context.Context, event *ScanCompletedEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = n.now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	return nil
}

// Close drops the connection.
func (n *NATSNotifier) Close() {
	n.conn.Close()
}
