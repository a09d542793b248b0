package ws

import (
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"habithub/internal/application/usecase"
	"habithub/internal/infrastructure/security"
)

// Hub держит активные соединения чата. У одного пользователя может быть
// несколько соединений (телефон + браузер), события доставляются на все.
type Hub struct {
	messages     *usecase.MessageService
	tokenManager *security.TokenManager
	log          *logrus.Logger

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[uuid.UUID]map[*client]struct{}
}

func NewHub(messages *usecase.MessageService, tokenManager *security.TokenManager, log *logrus.Logger) *Hub {
	return &Hub{
		messages:     messages,
		tokenManager: tokenManager,
		log:          log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS отрабатывает HTTP-слой, здесь не дублируем
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[uuid.UUID]map[*client]struct{}),
	}
}

// ServeHTTP апгрейдит соединение. Токен обязателен до апгрейда:
// ?token=... или заголовок Authorization.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		header := r.Header.Get("Authorization")
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	rawID, err := h.tokenManager.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "invalid token subject", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := newClient(h, conn, userID)
	h.register(c)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}

	h.log.WithField("user_id", c.userID).Debug("chat client connected")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.userID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, c.userID)
			}
		}
	}
}

// notify доставляет событие на все соединения перечисленных пользователей.
// Забитый канал соединения трактуем как мёртвое и снимаем его.
func (h *Hub) notify(event Event, userIDs ...uuid.UUID) {
	h.mu.RLock()
	var stale []*client
	for _, id := range userIDs {
		for c := range h.clients[id] {
			select {
			case c.send <- event:
			default:
				stale = append(stale, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.unregister(c)
		c.conn.Close()
	}
}
