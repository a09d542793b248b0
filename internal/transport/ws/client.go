package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"habithub/internal/result"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8192
)

// Frame — входящий кадр от клиента.
type Frame struct {
	Action      string `json:"action"`
	RecipientID string `json:"recipient_id,omitempty"`
	CompanionID string `json:"companion_id,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
	Text        string `json:"text,omitempty"`
}

// Event — исходящее событие.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

const (
	EventReceiveMessage = "ReceiveMessage"
	EventUpdateMessage  = "UpdateMessage"
	EventDeleteMessage  = "DeleteMessage"
	EventChatHistory    = "ChatHistory"
	EventCompanionsList = "CompanionsList"
	EventError          = "Error"
)

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	send   chan Event
}

func newClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *client {
	return &client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan Event, 16),
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.WithError(err).WithField("user_id", c.userID).Debug("chat read error")
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.fail("invalid frame")
			continue
		}
		c.handle(frame)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) handle(frame Frame) {
	ctx := context.Background()

	switch frame.Action {
	case "sendMessage":
		c.sendMessage(ctx, frame)
	case "editMessage":
		c.editMessage(ctx, frame)
	case "deleteMessage":
		c.deleteMessage(ctx, frame)
	case "getChatHistory":
		c.chatHistory(ctx, frame)
	case "getAllCompanions":
		c.companions(ctx)
	default:
		c.fail("unknown action: " + frame.Action)
	}
}

func (c *client) sendMessage(ctx context.Context, frame Frame) {
	recipientID, err := uuid.Parse(frame.RecipientID)
	if err != nil {
		c.fail("invalid recipient_id")
		return
	}

	res := c.hub.messages.Add(ctx, c.userID, recipientID, frame.Text)
	if !res.IsSuccess() {
		c.failResult(res.Err())
		return
	}

	// Рассылка только после подтверждённой записи.
	msg := res.Value()
	c.hub.notify(Event{Event: EventReceiveMessage, Payload: msg}, msg.SenderID, msg.RecipientID)
}

func (c *client) editMessage(ctx context.Context, frame Frame) {
	messageID, err := uuid.Parse(frame.MessageID)
	if err != nil {
		c.fail("invalid message_id")
		return
	}

	if res := c.hub.messages.Update(ctx, c.userID, messageID, frame.Text); !res.IsSuccess() {
		c.failResult(res.Err())
		return
	}

	msgRes := c.hub.messages.GetByID(ctx, c.userID, messageID)
	if !msgRes.IsSuccess() {
		c.failResult(msgRes.Err())
		return
	}
	msg := msgRes.Value()
	c.hub.notify(Event{Event: EventUpdateMessage, Payload: msg}, msg.SenderID, msg.RecipientID)
}

func (c *client) deleteMessage(ctx context.Context, frame Frame) {
	messageID, err := uuid.Parse(frame.MessageID)
	if err != nil {
		c.fail("invalid message_id")
		return
	}

	// Участников узнаём до удаления, иначе некому слать событие.
	msgRes := c.hub.messages.GetByID(ctx, c.userID, messageID)
	if !msgRes.IsSuccess() {
		c.failResult(msgRes.Err())
		return
	}
	msg := msgRes.Value()

	if res := c.hub.messages.Delete(ctx, c.userID, messageID); !res.IsSuccess() {
		c.failResult(res.Err())
		return
	}

	c.hub.notify(Event{
		Event:   EventDeleteMessage,
		Payload: map[string]string{"message_id": messageID.String()},
	}, msg.SenderID, msg.RecipientID)
}

func (c *client) chatHistory(ctx context.Context, frame Frame) {
	companionID, err := uuid.Parse(frame.CompanionID)
	if err != nil {
		c.fail("invalid companion_id")
		return
	}

	res := c.hub.messages.GetAllByUsersID(ctx, c.userID, companionID)
	if !res.IsSuccess() {
		c.failResult(res.Err())
		return
	}
	c.deliver(Event{Event: EventChatHistory, Payload: res.Value()})
}

func (c *client) companions(ctx context.Context) {
	res := c.hub.messages.GetAllCompanionsID(ctx, c.userID)
	if !res.IsSuccess() {
		c.failResult(res.Err())
		return
	}
	c.deliver(Event{Event: EventCompanionsList, Payload: res.Value()})
}

// deliver шлёт событие только этому соединению.
func (c *client) deliver(event Event) {
	select {
	case c.send <- event:
	default:
		c.hub.log.WithField("user_id", c.userID).Warn("chat client send buffer full, dropping event")
	}
}

func (c *client) fail(message string) {
	c.deliver(Event{Event: EventError, Payload: map[string]string{"error": message}})
}

func (c *client) failResult(err *result.Error) {
	c.fail(err.Message)
}
