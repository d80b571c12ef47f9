package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/observability"
)

const subscriberBufferSize = 16

// relayedSeenLimit bounds the dedup window for cross-node events.
const relayedSeenLimit = 1024

// Event is a table-level change notification. Clients use it only as a
// trigger to re-run their reads; it carries no row payload.
type Event struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	ID     string    `json:"id,omitempty"`
	SentAt time.Time `json:"sent_at"`
}

// Change actions carried by events.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Publisher is the write-side of the change feed. Services publish after
// every successful mutation.
type Publisher interface {
	Publish(ctx context.Context, table, action, id string)
}

type envelope struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Event  Event  `json:"event"`
}

// Hub dispatches change events to in-process subscribers and relays them
// across nodes via Redis pub/sub and NATS. One hub serves every entity
// type; subscribers filter by table.
type Hub struct {
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	nodeID      string

	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}

	seenMu    sync.Mutex
	seen      map[string]struct{}
	seenOrder []string
}

// NewHub constructs the change-event hub. Redis and NATS connections are
// optional; with both nil the hub still serves local subscribers.
func NewHub(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) *Hub {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":changes"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".changes"
	}

	return &Hub{
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "realtime_hub").Logger(),
		nodeID:      uuid.NewString(),
		subscribers: make(map[string]map[chan Event]struct{}),
		seen:        make(map[string]struct{}),
	}
}

// Start launches the cross-node consumers. It returns immediately.
func (h *Hub) Start(ctx context.Context) {
	if h.redis != nil && h.redisStream != "" {
		go h.consumeRedis(ctx)
	}
	if h.nats != nil && h.natsSubject != "" {
		go h.consumeNATS(ctx)
	}
}

// Publish broadcasts a change event to local subscribers and relays it to
// the other nodes. Relay failures are logged, never returned: the write
// that triggered the event has already committed.
func (h *Hub) Publish(ctx context.Context, table, action, id string) {
	event := Event{
		Table:  table,
		Action: action,
		ID:     id,
		SentAt: time.Now().UTC(),
	}

	h.broadcast(event)
	observability.RealtimeEventsTotal().WithLabelValues(table, action).Inc()

	if h.redis == nil && h.nats == nil {
		return
	}

	payload, err := json.Marshal(envelope{ID: uuid.NewString(), Source: h.nodeID, Event: event})
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to encode change event")
		return
	}

	if h.redis != nil && h.redisStream != "" {
		if err := h.redis.Publish(ctx, h.redisStream, payload).Err(); err != nil {
			h.logger.Warn().Err(err).Str("table", table).Msg("failed to relay change event to redis")
		}
	}

	if h.nats != nil && h.natsSubject != "" {
		if err := h.nats.Publish(h.natsSubject, payload); err != nil {
			h.logger.Warn().Err(err).Str("table", table).Msg("failed to relay change event to nats")
		}
	}
}

// Subscribe registers a listener for one table. The returned cleanup must
// be called when the subscriber goes away.
func (h *Hub) Subscribe(table string) (<-chan Event, func()) {
	channel := make(chan Event, subscriberBufferSize)

	h.mu.Lock()
	if _, exists := h.subscribers[table]; !exists {
		h.subscribers[table] = make(map[chan Event]struct{})
	}
	h.subscribers[table][channel] = struct{}{}
	h.mu.Unlock()

	observability.RealtimeSubscribers().Inc()

	cleanup := func() {
		h.mu.Lock()
		if subscribers, ok := h.subscribers[table]; ok {
			if _, ok := subscribers[channel]; ok {
				delete(subscribers, channel)
				close(channel)
				if len(subscribers) == 0 {
					delete(h.subscribers, table)
				}
			}
		}
		h.mu.Unlock()
		observability.RealtimeSubscribers().Dec()
	}

	return channel, cleanup
}

func (h *Hub) broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.Table] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) consumeRedis(ctx context.Context) {
	pubsub := h.redis.Subscribe(ctx, h.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			h.logger.Error().Err(err).Msg("change feed redis subscription closed")
			return
		}
		h.handleRelayed([]byte(msg.Payload))
	}
}

func (h *Hub) consumeNATS(ctx context.Context) {
	sub, err := h.nats.QueueSubscribe(h.natsSubject, "tuition-changes", func(msg *nats.Msg) {
		h.handleRelayed(msg.Data)
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to subscribe to nats change subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			h.logger.Warn().Err(err).Msg("failed to drain change feed nats subscription")
		}
	}()
}

func (h *Hub) handleRelayed(payload []byte) {
	var relayed envelope
	if err := json.Unmarshal(payload, &relayed); err != nil {
		h.logger.Warn().Err(err).Msg("invalid change event payload")
		return
	}

	if relayed.Source == h.nodeID {
		return
	}

	// The same envelope arrives over both redis and nats; only the first
	// copy reaches subscribers.
	if relayed.ID != "" && !h.markSeen(relayed.ID) {
		return
	}

	h.broadcast(relayed.Event)
}

// markSeen records an envelope id and reports whether it is new. The seen
// set is bounded, evicting oldest first.
func (h *Hub) markSeen(id string) bool {
	h.seenMu.Lock()
	defer h.seenMu.Unlock()

	if _, dup := h.seen[id]; dup {
		return false
	}

	h.seen[id] = struct{}{}
	h.seenOrder = append(h.seenOrder, id)
	if len(h.seenOrder) > relayedSeenLimit {
		oldest := h.seenOrder[0]
		h.seenOrder = h.seenOrder[1:]
		delete(h.seen, oldest)
	}

	return true
}
