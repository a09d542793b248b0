package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"habithub/internal/application/usecase"
	"habithub/internal/infrastructure/cache"
)

// Срок жизни связки "пользователь — чат": месяц без активности и привязка гаснет.
const connectionTTL = 30 * 24 * time.Hour

const progressCallbackPrefix = "progress_"

// Bot — телеграм-бот напоминаний: привязка аккаунта по ID и отметка
// выполнения привычки из inline-кнопки.
type Bot struct {
	api    *tgbotapi.BotAPI
	chats  *cache.TelegramChatStore
	users  *usecase.UserService
	habits *usecase.HabitService
	log    *logrus.Logger
}

func New(
	api *tgbotapi.BotAPI,
	chats *cache.TelegramChatStore,
	users *usecase.UserService,
	habits *usecase.HabitService,
	log *logrus.Logger,
) *Bot {
	return &Bot{api: api, chats: chats, users: users, habits: habits, log: log}
}

// Run крутит long-poll до отмены контекста.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	b.log.WithField("bot", b.api.Self.UserName).Info("telegram bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() && msg.Command() == "start" {
		b.reply(msg.Chat.ID,
			"Привет! Отправьте ID вашего аккаунта HabitHub, чтобы получать напоминания о привычках.")
		return
	}

	// Любой не-командный текст пробуем как ID аккаунта.
	userID, err := uuid.Parse(strings.TrimSpace(msg.Text))
	if err != nil {
		b.reply(msg.Chat.ID, "Не похоже на ID аккаунта. Отправьте /start и пришлите ID из профиля.")
		return
	}

	userRes := b.users.GetByID(ctx, userID)
	if !userRes.IsSuccess() {
		b.reply(msg.Chat.ID, "Пользователь с таким ID не найден.")
		return
	}

	storeRes := b.chats.StoreConnection(ctx, userID, msg.Chat.ID, connectionTTL)
	if !storeRes.IsSuccess() {
		b.log.WithField("user_id", userID).Error("failed to store telegram connection")
		b.reply(msg.Chat.ID, "Что-то пошло не так, попробуйте позже.")
		return
	}

	b.reply(msg.Chat.ID, "Готово, "+userRes.Value().FirstName+"! Напоминания подключены.")
}

// handleCallback: нажатие "✅ Выполнил" пишет 100% прогресса за сегодня.
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	defer func() {
		// Телеграм ждёт ответ на callback, иначе у клиента крутится спиннер.
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			b.log.WithError(err).Warn("failed to answer callback")
		}
	}()

	if !strings.HasPrefix(query.Data, progressCallbackPrefix) {
		return
	}
	habitID, err := uuid.Parse(strings.TrimPrefix(query.Data, progressCallbackPrefix))
	if err != nil {
		return
	}

	chatID := query.Message.Chat.ID

	userRes := b.chats.GetUserIDByChat(ctx, chatID)
	if !userRes.IsSuccess() || userRes.Value() == nil {
		b.reply(chatID, "Сессия истекла. Отправьте /start и привяжите аккаунт заново.")
		return
	}
	userID := *userRes.Value()

	today := time.Now().UTC()
	if res := b.habits.AddProgress(ctx, userID, habitID, today, 100); !res.IsSuccess() {
		b.log.WithFields(logrus.Fields{
			"user_id":  userID,
			"habit_id": habitID,
		}).WithField("error", res.Err().Message).Warn("failed to record progress from telegram")
		b.reply(chatID, "Не удалось записать прогресс: "+res.Err().Message)
		return
	}

	b.reply(chatID, "Отлично! Прогресс за сегодня записан 💪")
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Warn("failed to send telegram message")
	}
}
