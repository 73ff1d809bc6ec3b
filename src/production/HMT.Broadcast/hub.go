package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

// Viewer is one subscribed consumer of the live event stream. Events are
// delivered through a bounded channel; when the viewer falls behind, events
// are dropped for it rather than blocking the publisher.
type Viewer struct {
	ID string

	mu     sync.Mutex
	events chan hmtmodels.Event
	closed bool
	drops  uint64
}

// Events is the viewer's receive channel. It is closed when the viewer is
// unsubscribed or the hub shuts down.
func (v *Viewer) Events() <-chan hmtmodels.Event {
	return v.events
}

// Drops reports how many events were dropped for this viewer so far.
func (v *Viewer) Drops() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.drops
}

// trySend delivers the event without blocking. The per-viewer mutex keeps
// send and close from interleaving; it is never held while a consumer is
// slow, because the send itself never blocks.
func (v *Viewer) trySend(e hmtmodels.Event) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return false
	}
	select {
	case v.events <- e:
		return true
	default:
		v.drops++
		return false
	}
}

func (v *Viewer) close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.closed {
		v.closed = true
		close(v.events)
	}
}

// Hub fans events out from the single scheduler loop to any number of
// viewers. Membership changes are serialized by the hub mutex; delivery
// happens against a snapshot taken at publish time, so one stalled viewer
// never blocks subscribe or unsubscribe of the others.
type Hub struct {
	mu         sync.RWMutex
	viewers    map[string]*Viewer
	bufferSize int
	shut       bool

	dropped atomic.Uint64

	logger *logger.Logger
}

// NewHub creates a hub whose viewers buffer up to bufferSize events.
func NewHub(bufferSize int, log *logger.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Hub{
		viewers:    make(map[string]*Viewer),
		bufferSize: bufferSize,
		logger:     log.WithComponent("broadcast"),
	}
}

// Subscribe registers a new viewer and returns its handle. Subscribing to a
// hub that has already shut down yields a viewer whose channel is closed.
func (h *Hub) Subscribe() *Viewer {
	viewer := &Viewer{
		ID:     uuid.New().String(),
		events: make(chan hmtmodels.Event, h.bufferSize),
	}

	h.mu.Lock()
	if h.shut {
		h.mu.Unlock()
		viewer.close()
		return viewer
	}
	h.viewers[viewer.ID] = viewer
	h.mu.Unlock()

	h.logger.Debug("viewer subscribed: " + viewer.ID)
	return viewer
}

// Unsubscribe removes a viewer and closes its channel. Idempotent.
func (h *Hub) Unsubscribe(viewer *Viewer) {
	if viewer == nil {
		return
	}

	h.mu.Lock()
	_, registered := h.viewers[viewer.ID]
	delete(h.viewers, viewer.ID)
	h.mu.Unlock()

	viewer.close()
	if registered {
		h.logger.Debug("viewer unsubscribed: " + viewer.ID)
	}
}

// Publish delivers the event to every currently subscribed viewer. It
// returns promptly regardless of consumer speed: full viewer channels drop
// the event and bump the drop counter instead of blocking.
func (h *Hub) Publish(event hmtmodels.Event) {
	h.mu.RLock()
	if h.shut {
		h.mu.RUnlock()
		return
	}
	snapshot := make([]*Viewer, 0, len(h.viewers))
	for _, v := range h.viewers {
		snapshot = append(snapshot, v)
	}
	h.mu.RUnlock()

	for _, viewer := range snapshot {
		if !viewer.trySend(event) {
			h.dropped.Add(1)
		}
	}
}

// Dropped reports the total number of events dropped across all viewers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// ViewerCount reports the current number of subscribed viewers.
func (h *Hub) ViewerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Close shuts the hub down and closes every viewer channel so blocked
// consumers unblock instead of hanging.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.shut {
		h.mu.Unlock()
		return
	}
	h.shut = true
	viewers := make([]*Viewer, 0, len(h.viewers))
	for _, v := range h.viewers {
		viewers = append(viewers, v)
	}
	h.viewers = make(map[string]*Viewer)
	h.mu.Unlock()

	for _, viewer := range viewers {
		viewer.close()
	}
	h.logger.Info("broadcast hub closed")
}
