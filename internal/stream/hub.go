package stream

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix  = "analysis:"
	channelSuffix  = ":events"
	channelPattern = channelPrefix + "*" + channelSuffix
)

// Event reports the progress of one analysis stage.
type Event struct {
	AnalysisID string    `json:"analysis_id"`
	Stage      string    `json:"stage"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

// Hub fans analysis events out to websocket clients. With redis configured
// every event goes through the pub/sub channel so that all API instances
// see it; without redis delivery is local only.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	pubsub  *redis.PubSub
	done    chan struct{}
}

type Client struct {
	AnalysisID string
	Send       chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		clients: map[string]map[*Client]struct{}{},
		done:    make(chan struct{}),
	}

	if redisClient == nil {
		close(h.done)
		return h
	}

	ctx := context.Background()
	pubsub := redisClient.PSubscribe(ctx, channelPattern)
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("redis subscribe error, streaming locally: %v", err)
		_ = pubsub.Close()
		close(h.done)
		return h
	}
	h.redis = redisClient
	h.pubsub = pubsub
	go h.subscribeRedis()
	return h
}

func (h *Hub) Register(analysisID string) *Client {
	client := &Client{
		AnalysisID: analysisID,
		Send:       make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[analysisID] == nil {
		h.clients[analysisID] = map[*Client]struct{}{}
	}
	h.clients[analysisID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.AnalysisID]; ok {
		if _, registered := clients[client]; !registered {
			return
		}
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.AnalysisID)
		}
		close(client.Send)
	}
}

// Broadcast delivers payload to every client watching analysisID.
func (h *Hub) Broadcast(analysisID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(analysisID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(analysisID, payload)
}

// Publish encodes ev and broadcasts it.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("encode event error: %v", err)
		return
	}
	h.Broadcast(ev.AnalysisID, payload)
}

// Close stops the redis subscription, if any.
func (h *Hub) Close() {
	if h.pubsub != nil {
		_ = h.pubsub.Close()
	}
	<-h.done
}

func (h *Hub) deliver(analysisID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[analysisID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	defer close(h.done)

	for msg := range h.pubsub.Channel() {
		analysisID := analysisIDFromChannel(msg.Channel)
		if analysisID == "" {
			continue
		}
		h.deliver(analysisID, []byte(msg.Payload))
	}
}

func redisChannel(analysisID string) string {
	return channelPrefix + analysisID + channelSuffix
}

func analysisIDFromChannel(ch string) string {
	// analysis:{id}:events
	if len(ch) <= len(channelPrefix)+len(channelSuffix) ||
		!strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
