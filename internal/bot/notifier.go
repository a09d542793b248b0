package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"habithub/internal/domain"
	"habithub/internal/infrastructure/cache"
	"habithub/internal/infrastructure/repository"
)

// Пауза между отправками, чтобы не упереться в rate limit Telegram.
const sendDelay = 200 * time.Millisecond

// Notifier раз в день рассылает напоминания по активным привычкам всем
// пользователям с привязанным чатом.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chats  *cache.TelegramChatStore
	habits *repository.HabitRepository
	cron   *cron.Cron
	log    *logrus.Logger
}

func NewNotifier(
	api *tgbotapi.BotAPI,
	chats *cache.TelegramChatStore,
	habits *repository.HabitRepository,
	log *logrus.Logger,
) *Notifier {
	return &Notifier{
		api:    api,
		chats:  chats,
		habits: habits,
		cron:   cron.New(cron.WithLocation(time.UTC)),
		log:    log,
	}
}

// Start вешает задание на 06:00 UTC ежедневно.
func (n *Notifier) Start() error {
	if _, err := n.cron.AddFunc("0 6 * * *", n.run); err != nil {
		return err
	}
	n.cron.Start()
	return nil
}

func (n *Notifier) Stop() {
	<-n.cron.Stop().Done()
}

// run обходит все привязки. Ошибка по одному пользователю не валит рассылку.
func (n *Notifier) run() {
	ctx := context.Background()

	connsRes := n.chats.GetAllConnections(ctx)
	if !connsRes.IsSuccess() {
		n.log.Error("notification run aborted: failed to load telegram connections")
		return
	}

	for userID, chatID := range connsRes.Value() {
		habitsRes := n.habits.GetAllByFilter(ctx, "user_id = ? AND is_active = ?", userID, true)
		if !habitsRes.IsSuccess() {
			n.log.WithField("user_id", userID).Warn("failed to load habits for notification")
			continue
		}

		for _, habit := range habitsRes.Value() {
			n.sendReminder(chatID, habit)
			time.Sleep(sendDelay)
		}
	}
}

func (n *Notifier) sendReminder(chatID int64, habit *domain.Habit) {
	text := "Напоминание о привычке"
	if habit.Goal != "" {
		text += ": " + habit.Goal
	}
	text += "\nНе забудьте отметить прогресс за сегодня!"

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Выполнил", progressCallbackPrefix+habit.ID.String()),
		),
	)

	if _, err := n.api.Send(msg); err != nil {
		n.log.WithError(err).WithField("chat_id", chatID).Warn("failed to send reminder")
	}
}
