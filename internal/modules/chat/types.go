package chat

import (
	"errors"
	"sync"
	"time"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	"github.com/pindrop/core/internal/models"
	pkgredis "github.com/pindrop/core/internal/pkg/redis"
)

const (
	namespaceChat = "/chat"
	redisChanChat = "pindrop:gateway:chat"

	messageJoin  = "join"
	messageLeave = "leave"

	eventGatewayConnect = "GATEWAY_CONNECT"
	eventAuthFailed     = "AUTH_FAILED"
	eventChatMessage    = "CHAT_MESSAGE"
	eventMemberJoin     = "MEMBER_JOIN"
	eventMemberLeave    = "MEMBER_LEAVE"
)

var errPinNotFound = errors.New("pin not found")

// Message is the envelope used by hub broadcasts and Redis fan-out.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

type gatewayPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clientMeta struct {
	sid      string
	username string
	room     string
}

// Hub manages the chat socket.io namespace and cluster fan-out.
type Hub struct {
	mu sync.RWMutex

	sidSocket map[string]*socketio.Socket
	sidRooms  map[string]map[string]struct{}
	roomCount map[string]int

	broadcast chan Message
	join      chan clientMeta
	leave     chan clientMeta

	rc             *pkgredis.Client
	logger         *zap.Logger
	sio            *socketio.Server
	tokenValidator func(string) (string, bool)
}

// CreateMessageDTO is the POST /pins/:id/chat payload.
type CreateMessageDTO struct {
	Message string `json:"message" binding:"required"`
}

type chatMessageResponse struct {
	ID       string    `json:"id"`
	PinID    string    `json:"pin_id"`
	Username string    `json:"username"`
	Message  string    `json:"message"`
	Created  time.Time `json:"created_at"`
}

func toResponse(m *models.ChatMessageModel) chatMessageResponse {
	return chatMessageResponse{
		ID:       m.ID,
		PinID:    m.PinID,
		Username: m.Username,
		Message:  m.Message,
		Created:  m.CreatedAt,
	}
}
