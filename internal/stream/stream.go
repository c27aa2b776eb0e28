// Package stream receives live updates pushed over the /ws endpoint.
//
// The feed is best-effort: a dropped connection ends the stream with a
// logged close reason and is not retried.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/qualitydesk/qualitybot/internal/model"
)

// EventType tags the recognized envelope shapes.
type EventType string

// Recognized push envelope types. Anything else arrives as EventRaw.
const (
	EventERPMetrics   EventType = "erp_metrics_update"
	EventImportStatus EventType = "import_status_update"
	EventRaw          EventType = "raw"
)

// Event is one message delivered by the feed.
type Event struct {
	Type EventType

	// Metrics is set for erp_metrics_update events.
	Metrics *model.MetricsReport

	// Import is set for import_status_update events.
	Import *model.ImportResult

	// Raw holds the verbatim payload for unrecognized shapes.
	Raw string
}

type envelope struct {
	Type         string          `json:"type"`
	Data         json.RawMessage `json:"data"`
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	ImportedRows int             `json:"imported_rows"`
}

// Feed is an open WebSocket subscription.
type Feed struct {
	conn   *websocket.Conn
	events chan Event
	log    *zap.Logger
}

// Dial connects to <wsBaseURL>/ws and starts the read loop.
func Dial(ctx context.Context, wsBaseURL string, log *zap.Logger) (*Feed, error) {
	if log == nil {
		log = zap.NewNop()
	}
	url := strings.TrimRight(wsBaseURL, "/") + "/ws"
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}
	f := &Feed{
		conn:   conn,
		events: make(chan Event, 16),
		log:    log,
	}
	go f.readLoop()
	return f, nil
}

// Events returns the channel of incoming events. It is closed when the
// connection drops or Close is called.
func (f *Feed) Events() <-chan Event {
	return f.events
}

// Close tears down the connection. Safe to call after the feed ended.
func (f *Feed) Close() error {
	return f.conn.Close()
}

func (f *Feed) readLoop() {
	defer close(f.events)
	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			// No reconnect policy: log and end the feed.
			f.log.Info("stream closed", zap.Error(err))
			return
		}
		f.events <- decode(data, f.log)
	}
}

func decode(data []byte, log *zap.Logger) Event {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn("unparseable stream message", zap.Error(err))
		return Event{Type: EventRaw, Raw: string(data)}
	}
	switch env.Type {
	case string(EventERPMetrics):
		var report model.MetricsReport
		if env.Data != nil {
			if err := json.Unmarshal(env.Data, &report); err != nil {
				log.Warn("bad erp_metrics_update payload", zap.Error(err))
				return Event{Type: EventRaw, Raw: string(data)}
			}
		}
		return Event{Type: EventERPMetrics, Metrics: &report}
	case string(EventImportStatus):
		return Event{Type: EventImportStatus, Import: &model.ImportResult{
			Success:      env.Success,
			Message:      env.Message,
			ImportedRows: env.ImportedRows,
		}}
	default:
		return Event{Type: EventRaw, Raw: string(data)}
	}
}
