package services

import (
	"context"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/repository"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
)

// MessageService handles direct messages between students and mentors
type MessageService struct {
	messageRepo repository.MessageDataSource
	userRepo    repository.UserDataSource
	dispatcher  Dispatcher
}

// NewMessageService creates a new message service
func NewMessageService(messageRepo repository.MessageDataSource, userRepo repository.UserDataSource, dispatcher Dispatcher) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

// SendMessage sends a direct message to another user and notifies them
func (s *MessageService) SendMessage(ctx context.Context, senderID int64, req *models.SendMessageRequest) (*models.Message, error) {
	if req.RecipientID == senderID {
		return nil, apperrors.InvalidInputError("recipientId", "cannot message yourself")
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, req.RecipientID); err != nil {
		return nil, err
	}

	message, err := s.messageRepo.Create(ctx, senderID, req.RecipientID, req.Body)
	if err != nil {
		return nil, err
	}

	metrics.MessagesSent.WithLabelValues("success").Inc()

	s.dispatcher.MessageReceived(ctx, message, sender)

	return message, nil
}

// ListConversations fetches the user's conversation list, newest first
func (s *MessageService) ListConversations(ctx context.Context, userID int64) (*models.ConversationListResponse, error) {
	conversations, err := s.messageRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.ConversationListResponse{
		Conversations: conversations,
		Total:         len(conversations),
	}, nil
}

// GetConversation fetches the thread with another user and marks their
// messages as read
func (s *MessageService) GetConversation(ctx context.Context, userID, otherID int64) (*models.ConversationResponse, error) {
	messages, err := s.messageRepo.GetConversation(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.MarkRead(ctx, userID, otherID); err != nil {
		return nil, err
	}

	return &models.ConversationResponse{
		Messages: messages,
		Total:    len(messages),
	}, nil
}
