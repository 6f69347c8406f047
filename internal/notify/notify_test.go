package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject  string
	data     []byte
	pubErr   error
	flushErr error
	closed   bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.pubErr
}

func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }
func (f *fakeConn) Close()                                 { f.closed = true }

func TestPublish(t *testing.T) {
	fc := &fakeConn{}
	n := newNATSNotifier(fc, "")
	fixed := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	err := n.Publish(context.Background(), &ScanCompletedEvent{
		ScanID:       "s1",
		Source:       "index.html",
		BaseURL:      "https://example.com/",
		Output:       "r.json",
		TotalLinks:   2,
		ByTypeCounts: map[string]int{"css": 2},
	})
	require.NoError(t, err)
	require.Equal(t, DefaultSubject, fc.subject)

	var got map[string]any
	require.NoError(t, json.Unmarshal(fc.data, &got))
	require.Equal(t, "s1", got["scan_id"])
	require.Equal(t, "index.html", got["source"])
	require.InDelta(t, 2, got["total_links"], 0)
	require.Equal(t, "2026-04-01T10:00:00Z", got["timestamp"])

	n.Close()
	require.True(t, fc.closed)
}

func TestPublish_Errors(t *testing.T) {
	t.Run("publish", func(t *testing.T) {
		n := newNATSNotifier(&fakeConn{pubErr: errors.New("connection closed")}, "custom")
		require.ErrorContains(t, n.Publish(context.Background(), &ScanCompletedEvent{}), "failed to publish event")
	})

	t.Run("flush", func(t *testing.T) {
		n := newNATSNotifier(&fakeConn{flushErr: errors.New("timeout")}, "custom")
		require.ErrorContains(t, n.Publish(context.Background(), &ScanCompletedEvent{}), "failed to flush event")
	})
}

func TestNewNATSNotifier_Unreachable(t *testing.T) {
	_, err := NewNATSNotifier("nats://127.0.0.1:1", "")
	require.Error(t, err)
}
