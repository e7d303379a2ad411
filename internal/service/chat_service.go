package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type messageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListConversation(ctx context.Context, userA, userB string, page, pageSize int) ([]models.Message, int, error)
	MarkRead(ctx context.Context, readerID, otherID string, at time.Time) error
}

type chatUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ChatService provides direct messaging between students and mentors.
type ChatService struct {
	repo      messageRepository
	users     chatUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChatService constructs a ChatService.
func NewChatService(repo messageRepository, users chatUserRepository, validate *validator.Validate, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ChatService{repo: repo, users: users, validator: validate, logger: logger}
}

// Send posts a message from the sender to another user.
func (s *ChatService) Send(ctx context.Context, senderID string, req models.SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	if req.ReceiverID == senderID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot message yourself")
	}
	if _, err := s.users.FindByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "recipient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recipient")
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Body:       req.Body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send message")
	}
	return message, nil
}

// Conversation returns the message history between the caller and another
// user, oldest first, and marks the other side's messages as read.
func (s *ChatService) Conversation(ctx context.Context, userID, otherID string, page, pageSize int) ([]models.Message, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	messages, total, err := s.repo.ListConversation(ctx, userID, otherID, page, pageSize)
	if err != nil {
		return nil, models.Pagination{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conversation")
	}
	if err := s.repo.MarkRead(ctx, userID, otherID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to mark conversation read", zap.Error(err))
	}
	return messages, models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}
