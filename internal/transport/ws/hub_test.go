package ws

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"habithub/internal/application/usecase"
	"habithub/internal/domain"
	"habithub/internal/infrastructure/repository"
	"habithub/internal/infrastructure/security"
)

func newTestHub(t *testing.T) (*Hub, *security.TokenManager, uuid.UUID, uuid.UUID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&repository.UserEntity{}, &repository.MessageEntity{}))

	users := repository.NewUserRepository(db)
	alice := &domain.User{ID: uuid.New(), FirstName: "Alice", Email: "alice@ws", PasswordHash: "x"}
	bob := &domain.User{ID: uuid.New(), FirstName: "Bob", Email: "bob@ws", PasswordHash: "x"}
	require.True(t, users.Add(context.Background(), alice).IsSuccess())
	require.True(t, users.Add(context.Background(), bob).IsSuccess())

	messages := usecase.NewMessageService(repository.NewMessageRepository(db), users)

	log := logrus.New()
	log.SetOutput(io.Discard)

	tokenManager := security.NewTokenManager("test-access", "test-refresh")
	hub := NewHub(messages, tokenManager, log)
	return hub, tokenManager, alice.ID, bob.ID
}

func wsURL(server *httptest.Server, token string) string {
	u := "ws" + strings.TrimPrefix(server.URL, "http")
	if token != "" {
		u += "?token=" + token
	}
	return u
}

func TestUpgradeWithoutTokenIsUnauthorized(t *testing.T) {
	hub, _, _, _ := newTestHub(t)
	server := httptest.NewServer(hub)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp2, err := websocket.DefaultDialer.Dial(wsURL(server, "garbage-token"), nil)
	require.Error(t, err)
	require.NotNil(t, resp2)
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestSendMessageFansOutToBothParticipants(t *testing.T) {
	hub, tokenManager, aliceID, bobID := newTestHub(t)
	server := httptest.NewServer(hub)
	defer server.Close()

	dial := func(userID uuid.UUID) *websocket.Conn {
		access, _, err := tokenManager.Generate(userID.String())
		require.NoError(t, err)
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, access), nil)
		require.NoError(t, err)
		return conn
	}

	aliceConn := dial(aliceID)
	defer aliceConn.Close()
	bobConn := dial(bobID)
	defer bobConn.Close()

	require.NoError(t, aliceConn.WriteJSON(Frame{
		Action:      "sendMessage",
		RecipientID: bobID.String(),
		Text:        "привет",
	}))

	readEvent := func(conn *websocket.Conn) Event {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		var event Event
		require.NoError(t, conn.ReadJSON(&event))
		return event
	}

	// Событие приходит и отправителю, и получателю.
	assert.Equal(t, EventReceiveMessage, readEvent(aliceConn).Event)
	assert.Equal(t, EventReceiveMessage, readEvent(bobConn).Event)
}

func TestInvalidFrameGetsErrorEventToCallerOnly(t *testing.T) {
	hub, tokenManager, aliceID, _ := newTestHub(t)
	server := httptest.NewServer(hub)
	defer server.Close()

	access, _, err := tokenManager.Generate(aliceID.String())
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, access), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Frame{Action: "fly"}))

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventError, event.Event)
}

func TestChatHistoryAndCompanions(t *testing.T) {
	hub, tokenManager, aliceID, bobID := newTestHub(t)
	server := httptest.NewServer(hub)
	defer server.Close()

	access, _, err := tokenManager.Generate(aliceID.String())
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, access), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Frame{
		Action:      "sendMessage",
		RecipientID: bobID.String(),
		Text:        "история",
	}))

	readEvent := func() Event {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		var event Event
		require.NoError(t, conn.ReadJSON(&event))
		return event
	}
	require.Equal(t, EventReceiveMessage, readEvent().Event)

	require.NoError(t, conn.WriteJSON(Frame{Action: "getChatHistory", CompanionID: bobID.String()}))
	assert.Equal(t, EventChatHistory, readEvent().Event)

	require.NoError(t, conn.WriteJSON(Frame{Action: "getAllCompanions"}))
	companions := readEvent()
	assert.Equal(t, EventCompanionsList, companions.Event)
	assert.Contains(t, companions.Payload, bobID.String())
}
