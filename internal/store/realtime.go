package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// reconnectDelay is the pause before re-opening a dropped event stream.
const reconnectDelay = 3 * time.Second

// realtimeConn multiplexes one server-sent-events stream across all
// subscriptions of a Client. The backend assigns a clientId on
// connect; the desired topic set is then posted back to it, and every
// topic change re-posts the full set.
type realtimeConn struct {
	client *Client
	logger *zerolog.Logger

	mu       sync.Mutex
	handlers map[string]map[int64]EventHandler // topic -> sub id -> handler
	nextID   int64
	clientID string
	running  bool
	cancel   context.CancelFunc
}

type realtimeSub struct {
	conn  *realtimeConn
	topic string
	id    int64
}

func (s *realtimeSub) Unsubscribe() {
	s.conn.remove(s.topic, s.id)
}

func newRealtimeConn(client *Client, logger *zerolog.Logger) *realtimeConn {
	return &realtimeConn{
		client:   client,
		logger:   logger,
		handlers: make(map[string]map[int64]EventHandler),
	}
}

func (rc *realtimeConn) subscribe(ctx context.Context, topic string, fn EventHandler) (Subscription, error) {
	rc.mu.Lock()
	rc.nextID++
	id := rc.nextID
	if rc.handlers[topic] == nil {
		rc.handlers[topic] = make(map[int64]EventHandler)
	}
	rc.handlers[topic][id] = fn

	if !rc.running {
		rc.running = true
		streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		rc.cancel = cancel
		go rc.run(streamCtx)
	} else if rc.clientID != "" {
		go rc.postTopics(ctx, rc.clientID, rc.topicsLocked())
	}
	rc.mu.Unlock()

	return &realtimeSub{conn: rc, topic: topic, id: id}, nil
}

func (rc *realtimeConn) remove(topic string, id int64) {
	rc.mu.Lock()
	if subs, ok := rc.handlers[topic]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(rc.handlers, topic)
		}
	}
	clientID := rc.clientID
	topics := rc.topicsLocked()
	stop := len(rc.handlers) == 0
	if stop && rc.cancel != nil {
		rc.cancel()
		rc.running = false
		rc.clientID = ""
	}
	rc.mu.Unlock()

	if !stop && clientID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rc.postTopics(ctx, clientID, topics)
	}
}

func (rc *realtimeConn) topicsLocked() []string {
	topics := make([]string, 0, len(rc.handlers))
	for t := range rc.handlers {
		topics = append(topics, t)
	}
	return topics
}

// run keeps the SSE stream open until every subscription is gone.
func (rc *realtimeConn) run(ctx context.Context) {
	for {
		if err := rc.stream(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			rc.logger.Warn().Err(err).Msg("realtime stream dropped, reconnecting")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (rc *realtimeConn) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rc.client.baseURL+"/api/realtime", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	if rc.client.token != "" {
		req.Header.Set("Authorization", rc.client.token)
	}

	// The stream must outlive the client's request timeout.
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("realtime connect failed: status=%d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventName string
	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			rc.dispatch(ctx, eventName, data.Bytes())
			eventName = ""
			data.Reset()
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("realtime stream closed")
}

func (rc *realtimeConn) dispatch(ctx context.Context, eventName string, data []byte) {
	if eventName == "" {
		return
	}

	if eventName == "PB_CONNECT" {
		var connect struct {
			ClientID string `json:"clientId"`
		}
		if err := json.Unmarshal(data, &connect); err != nil || connect.ClientID == "" {
			rc.logger.Error().Err(err).Msg("realtime connect payload invalid")
			return
		}
		rc.mu.Lock()
		rc.clientID = connect.ClientID
		topics := rc.topicsLocked()
		rc.mu.Unlock()
		rc.postTopics(ctx, connect.ClientID, topics)
		return
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		rc.logger.Error().Err(err).Str("event", eventName).Msg("realtime event payload invalid")
		return
	}

	rc.mu.Lock()
	var fns []EventHandler
	for _, fn := range rc.handlers[eventName] {
		fns = append(fns, fn)
	}
	rc.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

func (rc *realtimeConn) postTopics(ctx context.Context, clientID string, topics []string) {
	payload := map[string]any{
		"clientId":      clientID,
		"subscriptions": topics,
	}
	if err := rc.client.doJSON(ctx, http.MethodPost, "/api/realtime", payload, nil); err != nil {
		rc.logger.Error().Err(err).Msg("realtime subscription update failed")
	}
}
