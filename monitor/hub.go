package monitor

import (
	"encoding/json"

	"artikelku/pkg/logger"
)

// Hub fans captured events out to live websocket subscribers and queues them
// for delivery to the external collector. Capture is buffered so the request
// pipeline never waits on delivery.
type Hub struct {
	Register   chan *Subscriber
	Unregister chan *Subscriber
	Capture    chan Event

	subscribers map[*Subscriber]bool
	pending     chan Event
	notifier    *Notifier
}

// NewHub creates a hub. notifier may be nil, in which case events are only
// streamed to subscribers.
func NewHub(notifier *Notifier) *Hub {
	return &Hub{
		Register:    make(chan *Subscriber),
		Unregister:  make(chan *Subscriber),
		Capture:     make(chan Event, 64),
		subscribers: make(map[*Subscriber]bool),
		pending:     make(chan Event, 256),
		notifier:    notifier,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case subscriber := <-h.Register:
			h.subscribers[subscriber] = true
			logger.Sugar.Infof("Monitoring subscriber connected (%d total)", len(h.subscribers))

		case subscriber := <-h.Unregister:
			if _, ok := h.subscribers[subscriber]; ok {
				delete(h.subscribers, subscriber)
				close(subscriber.Send)
			}

		case event := <-h.Capture:
			if h.notifier != nil {
				select {
				case h.pending <- event:
				default:
					// The collector is not keeping up. Dropping beats blocking
					// the capture path.
					logger.Sugar.Warnf("Delivery queue full, dropping event %s", event.ID)
				}
			}

			payload, err := json.Marshal(event)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling event %s: %v", event.ID, err)
				continue
			}

			for subscriber := range h.subscribers {
				select {
				case subscriber.Send <- payload:
				default:
					// Lagging subscriber; evict so the hub never blocks.
					logger.Sugar.Warnf("Subscriber send buffer full, disconnecting")
					delete(h.subscribers, subscriber)
					close(subscriber.Send)
				}
			}
		}
	}
}

// DeliverWorker drains the pending queue to the collector. Runs in its own
// goroutine; a failed submission is logged and the event is dropped, never
// retried.
func (h *Hub) DeliverWorker() {
	if h.notifier == nil {
		return
	}

	for event := range h.pending {
		if err := h.notifier.Submit(event); err != nil {
			logger.Sugar.Errorf("Failed to submit event %s: %v", event.ID, err)
		}
	}
}
