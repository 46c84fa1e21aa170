package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/stretchr/testify/assert"
)

func newMessageService() (*services.MessageService, *MockMessageRepository, *MockUserRepository, *MockDispatcher) {
	messageRepo := new(MockMessageRepository)
	userRepo := new(MockUserRepository)
	dispatcher := new(MockDispatcher)

	svc := services.NewMessageService(messageRepo, userRepo, dispatcher)
	return svc, messageRepo, userRepo, dispatcher
}

func TestMessageService_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the message and notifies the recipient", func(t *testing.T) {
		svc, messageRepo, userRepo, dispatcher := newMessageService()

		sender := &models.User{ID: 1, Name: "Asha", Role: models.RoleStudent}
		userRepo.On("GetByID", ctx, int64(1)).Return(sender, nil)
		userRepo.On("GetByID", ctx, int64(2)).Return(&models.User{ID: 2, Role: models.RoleMentor}, nil)

		created := &models.Message{ID: 5, SenderID: 1, RecipientID: 2, Body: "Hello"}
		messageRepo.On("Create", ctx, int64(1), int64(2), "Hello").Return(created, nil)
		dispatcher.On("MessageReceived", ctx, created, sender).Return()

		message, err := svc.SendMessage(ctx, 1, &models.SendMessageRequest{RecipientID: 2, Body: "Hello"})

		assert.NoError(t, err)
		assert.Equal(t, int64(5), message.ID)
		dispatcher.AssertCalled(t, "MessageReceived", ctx, created, sender)
	})

	t.Run("rejects messaging yourself", func(t *testing.T) {
		svc, messageRepo, _, _ := newMessageService()

		_, err := svc.SendMessage(ctx, 1, &models.SendMessageRequest{RecipientID: 1, Body: "Hello me"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		messageRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects an unknown recipient", func(t *testing.T) {
		svc, messageRepo, userRepo, _ := newMessageService()

		userRepo.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil)
		userRepo.On("GetByID", ctx, int64(99)).Return(nil, apperrors.NotFoundError("user"))

		_, err := svc.SendMessage(ctx, 1, &models.SendMessageRequest{RecipientID: 99, Body: "Hello"})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		messageRepo.AssertNotCalled(t, "Create")
	})
}

func TestMessageService_GetConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the thread and marks it read", func(t *testing.T) {
		svc, messageRepo, _, _ := newMessageService()

		thread := []*models.Message{
			{ID: 1, SenderID: 2, RecipientID: 1, Body: "Hi"},
			{ID: 2, SenderID: 1, RecipientID: 2, Body: "Hello"},
		}
		messageRepo.On("GetConversation", ctx, int64(1), int64(2)).Return(thread, nil)
		messageRepo.On("MarkRead", ctx, int64(1), int64(2)).Return(nil)

		conversation, err := svc.GetConversation(ctx, 1, 2)

		assert.NoError(t, err)
		assert.Equal(t, 2, conversation.Total)
		messageRepo.AssertCalled(t, "MarkRead", ctx, int64(1), int64(2))
	})
}

func TestMessageService_ListConversations(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summaries newest first", func(t *testing.T) {
		svc, messageRepo, _, _ := newMessageService()

		summaries := []*models.ConversationSummary{
			{PartnerID: 2, PartnerName: "Ravi", LastMessage: "See you", LastAt: time.Now(), UnreadCount: 1},
		}
		messageRepo.On("ListConversations", ctx, int64(1)).Return(summaries, nil)

		resp, err := svc.ListConversations(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, int64(2), resp.Conversations[0].PartnerID)
	})

	t.Run("empty list for a user with no messages", func(t *testing.T) {
		svc, messageRepo, _, _ := newMessageService()

		messageRepo.On("ListConversations", ctx, int64(7)).Return([]*models.ConversationSummary{}, nil)

		resp, err := svc.ListConversations(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, 0, resp.Total)
		assert.NotNil(t, resp.Conversations)
	})
}
