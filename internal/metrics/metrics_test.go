package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/restosuite/venuestream/internal/bridge"
	"github.com/restosuite/venuestream/internal/realtime"
	"github.com/restosuite/venuestream/internal/recorder"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}
	return string(body)
}

func TestMetrics_MessagesCounter(t *testing.T) {
	m := New()

	m.Messages.WithLabelValues("ticket_created").Inc()
	m.Messages.WithLabelValues("ticket_created").Inc()
	m.Messages.WithLabelValues("alert").Inc()

	body := scrape(t, m)

	if !strings.Contains(body, `venuestream_messages_total{kind="ticket_created"} 2`) {
		t.Errorf("scrape missing ticket_created count:\n%s", body)
	}
	if !strings.Contains(body, `venuestream_messages_total{kind="alert"} 1`) {
		t.Errorf("scrape missing alert count:\n%s", body)
	}
}

func TestMetrics_ObserveComponents(t *testing.T) {
	m := New()

	client, err := realtime.NewClient(realtime.Config{
		BaseURL: "ws://localhost:9999",
		VenueID: 1,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	m.ObserveClient(client)
	m.ObserveWriter(recorder.NewWriter(recorder.DefaultConfig(), 1, nil, nil))
	m.ObservePublisher(bridge.NewPublisher(bridge.Config{}, 1, nil))

	body := scrape(t, m)

	for _, want := range []string{
		"venuestream_connection_state 0",
		"venuestream_connected 0",
		"venuestream_history_size 0",
		"venuestream_reconnects_total 0",
		"venuestream_recorder_inserts_total 0",
		"venuestream_recorder_dropped_total 0",
		"venuestream_fanout_published_total 0",
		"venuestream_fanout_failed_total 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}
