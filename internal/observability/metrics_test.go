package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordError("/tickets/:id/resolve", "POST", "INVALID_TRANSITION")
	m.RecordTransition("resolve", "in_progress", "resolved")
	m.RecordReminders(3)
	m.RecordReminders(0)

	snap := m.Snapshot()
	require.EqualValues(t, 2, snap.Requests["/tickets|GET|200"])
	require.EqualValues(t, 1, snap.Errors["/tickets/:id/resolve|POST|INVALID_TRANSITION"])
	require.EqualValues(t, 1, snap.Transitions["resolve|in_progress|resolved"])
	require.EqualValues(t, 3, snap.Reminders)

	snap.Requests["/tickets|GET|200"] = 99
	require.EqualValues(t, 2, m.Snapshot().Requests["/tickets|GET|200"])
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordTransition("assign", "pending", "assigned")
	require.Empty(t, m.Snapshot().Requests)
}
