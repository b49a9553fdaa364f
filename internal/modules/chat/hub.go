package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	"github.com/pindrop/core/internal/middleware"
	pkgredis "github.com/pindrop/core/internal/pkg/redis"
)

// RoomForPin is the socket.io room name carrying a pin's live chat.
func RoomForPin(pinID string) string { return "pin:" + pinID }

// NewHub builds the chat hub. tokenValidator maps a raw bearer token to
// the authenticated username; connections without a valid token are
// refused with an AUTH_FAILED message.
func NewHub(rc *pkgredis.Client, logger *zap.Logger, tokenValidator func(string) (string, bool)) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		sidSocket:      make(map[string]*socketio.Socket),
		sidRooms:       make(map[string]map[string]struct{}),
		roomCount:      make(map[string]int),
		broadcast:      make(chan Message, 256),
		join:           make(chan clientMeta, 256),
		leave:          make(chan clientMeta, 256),
		rc:             rc,
		logger:         logger,
		sio:            sio,
		tokenValidator: tokenValidator,
	}
	h.registerNamespace()
	return h
}

// Run starts the hub loop and Redis subscriber.
func (h *Hub) Run(ctx context.Context) {
	go h.subscribeRedis(ctx)

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case c := <-h.join:
			h.joinRoom(c)

		case c := <-h.leave:
			h.leaveRoom(c)

		case msg := <-h.broadcast:
			h.deliver(msg)
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := h.rc.Publish(ctx, redisChanChat, string(data)); err != nil && h.logger != nil {
				h.logger.Warn("chat publish failed", zap.String("channel", redisChanChat), zap.Error(err))
			}
		}
	}
}

// BroadcastPin sends an event to everyone in a pin's chat room, on this
// instance and (via Redis) on every other one.
func (h *Hub) BroadcastPin(pinID, event string, payload interface{}) {
	h.broadcast <- Message{Event: event, Payload: payload, Room: RoomForPin(pinID)}
}

// ClientCount returns connected clients, optionally filtered by room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room == "" {
		return len(h.sidSocket)
	}
	return h.roomCount[room]
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}

func (h *Hub) joinRoom(c clientMeta) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms, ok := h.sidRooms[c.sid]
	if !ok {
		return
	}
	if _, joined := rooms[c.room]; joined {
		return
	}
	rooms[c.room] = struct{}{}
	h.roomCount[c.room]++
}

func (h *Hub) leaveRoom(c clientMeta) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms, ok := h.sidRooms[c.sid]
	if !ok {
		return
	}
	if _, joined := rooms[c.room]; !joined {
		return
	}
	delete(rooms, c.room)
	if h.roomCount[c.room] > 0 {
		h.roomCount[c.room]--
	}
	if h.roomCount[c.room] == 0 {
		delete(h.roomCount, c.room)
	}
}

func (h *Hub) dropClient(sid string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.sidRooms[sid] {
		if h.roomCount[room] > 0 {
			h.roomCount[room]--
		}
		if h.roomCount[room] == 0 {
			delete(h.roomCount, room)
		}
	}
	delete(h.sidRooms, sid)
	delete(h.sidSocket, sid)
}

func (h *Hub) deliver(msg Message) {
	ns := h.sio.Of(namespaceChat, nil)
	payload := gatewayPayload{Type: msg.Event, Data: msg.Payload}
	if msg.Room == "" {
		ns.Emit("message", payload)
		return
	}
	ns.To(socketio.Room(msg.Room)).Emit("message", payload)
}

// subscribeRedis relays broadcasts published by other server instances.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanChat)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			h.deliver(msg)
		}
	}
}

type inboundChatMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

func (h *Hub) registerNamespace() {
	ns := h.sio.Of(namespaceChat, nil)
	_ = ns.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}

		token := middleware.NormalizeToken(extractToken(client))
		username, authed := "", false
		if token != "" && h.tokenValidator != nil {
			username, authed = h.tokenValidator(token)
		}
		if !authed {
			_ = client.Emit("message", gatewayPayload{Type: eventAuthFailed, Data: "auth failed"})
			client.Disconnect(true)
			return
		}

		sid := string(client.Id())
		h.mu.Lock()
		h.sidSocket[sid] = client
		h.sidRooms[sid] = make(map[string]struct{})
		h.mu.Unlock()

		_ = client.Emit("message", gatewayPayload{Type: eventGatewayConnect, Data: "WebSocket connected"})

		_ = client.On("message", func(eventArgs ...any) {
			msg, ok := parseInboundChatMessage(eventArgs...)
			if !ok {
				return
			}
			pinID := strFromAny(msg.Payload["pin_id"])
			if pinID == "" {
				pinID = strFromAny(msg.Payload["pinId"])
			}
			if pinID == "" {
				return
			}
			room := RoomForPin(pinID)

			switch msg.Type {
			case messageJoin:
				client.Join(socketio.Room(room))
				h.join <- clientMeta{sid: sid, username: username, room: room}
				h.BroadcastPin(pinID, eventMemberJoin, memberEventPayload(username, pinID))
			case messageLeave:
				client.Leave(socketio.Room(room))
				h.leave <- clientMeta{sid: sid, username: username, room: room}
				h.BroadcastPin(pinID, eventMemberLeave, memberEventPayload(username, pinID))
			}
		})

		_ = client.On("disconnect", func(_ ...any) {
			h.dropClient(sid)
		})
	})
}

func memberEventPayload(username, pinID string) map[string]interface{} {
	return map[string]interface{}{
		"username":  username,
		"pin_id":    pinID,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func extractToken(client *socketio.Socket) string {
	handshake := client.Handshake()
	if handshake == nil {
		return ""
	}
	if token := firstValueFromMultiMap(handshake.Query, "token"); token != "" {
		return token
	}
	return firstValueFromMultiMap(handshake.Headers, "authorization")
}

func firstValueFromMultiMap(values map[string][]string, key string) string {
	if len(values) == 0 {
		return ""
	}
	for k, list := range values {
		if !strings.EqualFold(strings.TrimSpace(k), key) || len(list) == 0 {
			continue
		}
		v := strings.TrimSpace(list[0])
		if v != "" {
			return v
		}
	}
	return ""
}

func parseInboundChatMessage(args ...any) (inboundChatMessage, bool) {
	if len(args) == 0 || args[0] == nil {
		return inboundChatMessage{}, false
	}

	var msg inboundChatMessage
	switch raw := args[0].(type) {
	case map[string]interface{}:
		msg.Type = strFromAny(raw["type"])
		msg.Payload = mapFromAny(raw["payload"])
	case string:
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return inboundChatMessage{}, false
		}
	case []byte:
		if err := json.Unmarshal(raw, &msg); err != nil {
			return inboundChatMessage{}, false
		}
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return inboundChatMessage{}, false
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return inboundChatMessage{}, false
		}
	}

	msg.Type = strings.TrimSpace(msg.Type)
	if msg.Type == "" {
		return inboundChatMessage{}, false
	}
	if msg.Payload == nil {
		msg.Payload = map[string]interface{}{}
	}
	return msg, true
}

func mapFromAny(v interface{}) map[string]interface{} {
	switch typed := v.(type) {
	case nil:
		return map[string]interface{}{}
	case map[string]interface{}:
		return typed
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return map[string]interface{}{}
		}
		out := map[string]interface{}{}
		if err := json.Unmarshal(data, &out); err != nil {
			return map[string]interface{}{}
		}
		return out
	}
}

func strFromAny(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
