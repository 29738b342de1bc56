package standingshandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	"github.com/alexandrevicenzi/go-sse"
)

const (
	// EventsChannel is the single SSE channel every client joins.
	EventsChannel = "standings"
	// ReloadEvent is the SSE event name sent after each successful load.
	ReloadEvent = "reload"
)

// ReloadNotice is the payload of a reload event.
type ReloadNotice struct {
	SnapshotID string    `json:"snapshot_id"`
	LoadedAt   time.Time `json:"loaded_at"`
	Players    int       `json:"players"`
}

// Broker fans snapshot changes out to connected browsers.
type Broker struct {
	server    *sse.Server
	logger    *slog.Logger
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewBroker creates a Broker. go-sse logs through a std logger bridged onto
// slog at debug level.
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		server: sse.NewServer(&sse.Options{
			Logger: slog.NewLogLogger(logger.Handler(), slog.LevelDebug),
			ChannelNameFunc: func(*http.Request) string {
				return EventsChannel
			},
		}),
		logger: logger,
	}
}

// ServeHTTP streams events to one client. A stream ends when the request
// context is cancelled, so the HTTP server must cancel its base context
// before the broker is closed.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if b.closed.Load() {
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	}
	b.server.ServeHTTP(w, r)
}

// Publish sends a reload event for snap. It matches the func signature
// expected by Service.Subscribe.
func (b *Broker) Publish(snap *standingsservice.Snapshot) {
	data, err := json.Marshal(ReloadNotice{
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Players:    len(snap.Entries),
	})
	if err != nil {
		b.logger.Error("Failed to encode reload notice", slog.String("error", err.Error()))
		return
	}
	if b.closed.Load() || !b.server.HasChannel(EventsChannel) {
		return
	}
	b.server.SendMessage(EventsChannel, sse.NewMessage(snap.ID, string(data), ReloadEvent))
}

// Clients is the number of connected event streams.
func (b *Broker) Clients() int {
	return b.server.ClientCount()
}

// Close stops the broker. Call it only after every stream has ended.
func (b *Broker) Close() {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		b.server.Shutdown()
	})
}
