package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
	"github.com/kasetgo/kaset/pkg/clients/telegram"
)

// Service links Telegram chats to accounts and pushes notifications through
// the Bot API.
type Service struct {
	client telegram.Client
	users  mongodb.UserRepository
	logger *zap.Logger
}

// NewService wires a new notifier. A nil client disables sends.
func NewService(client telegram.Client, users mongodb.UserRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, users: users, logger: logger}
}

// LinkTelegram associates a chat id with the user so reminders reach them.
func (s *Service) LinkTelegram(ctx context.Context, userID, chatID string) error {
	if chatID == "" {
		return &models.ValidationError{Field: "chat_id", Reason: "must not be empty"}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.TelegramChatID = chatID
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, *user); err != nil {
		return err
	}

	s.logger.Info("telegram chat linked", zap.String("user_id", userID))
	return nil
}

// SendHarvestDueReminder tells the plot owner that the crop is (nearly) due.
func (s *Service) SendHarvestDueReminder(ctx context.Context, user models.User, plot models.Plot) error {
	if plot.CurrentPlanting == nil {
		return &models.InvalidStateError{PlotID: plot.ID, Status: plot.Status, Op: "remind"}
	}

	text := fmt.Sprintf("Plot %q: %s planted on %s is due for harvest on %s.",
		plot.Name,
		plot.CurrentPlanting.VegetableName,
		plot.CurrentPlanting.PlantDate.Format("2006-01-02"),
		plot.CurrentPlanting.HarvestDueDate.Format("2006-01-02"))

	return s.send(ctx, user, text)
}

// SendResetCode delivers the password reset one-time code.
func (s *Service) SendResetCode(ctx context.Context, user models.User, code string) error {
	return s.send(ctx, user, fmt.Sprintf("Your password reset code is %s. It expires shortly.", code))
}

// SendTest pushes a short probe message so the user can confirm the link.
func (s *Service) SendTest(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.send(ctx, *user, "Notifications are working.")
}

func (s *Service) send(ctx context.Context, user models.User, text string) error {
	if s.client == nil {
		return &models.DependencyError{Dependency: "telegram", Err: fmt.Errorf("notifications not configured")}
	}
	if user.TelegramChatID == "" {
		return &models.ValidationError{Field: "telegram_chat_id", Reason: "no chat linked for this account"}
	}

	if _, err := s.client.SendMessage(ctx, telegram.SendMessageRequest{ChatID: user.TelegramChatID, Text: text}); err != nil {
		return &models.DependencyError{Dependency: "telegram", Err: err}
	}
	return nil
}
