package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"gorm.io/gorm"
)

type ChatService interface {
	// OpenRoom gets or creates the one room between two users. The pair is
	// stored sorted so both directions resolve to the same room.
	OpenRoom(ctx context.Context, actorID uuid.UUID, input dto.OpenRoomInput) (*model.ChatRoom, error)
	ListRooms(ctx context.Context, actorID uuid.UUID) ([]model.ChatRoom, error)
	SendMessage(ctx context.Context, actorID, roomID uuid.UUID, input dto.SendMessageInput) (*model.ChatMessage, error)
	ListMessages(ctx context.Context, actorID, roomID uuid.UUID, limit, offset int) ([]model.ChatMessage, error)
}

type chatService struct {
	repo                repository.ChatRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewChatService(repo repository.ChatRepository, userRepo repository.UserRepository, notificationService NotificationService) ChatService {
	return &chatService{
		repo:                repo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// sortPair orders two user IDs so (a, b) and (b, a) map to the same room row.
func sortPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) > 0 {
		return b, a
	}
	return a, b
}

func (s *chatService) OpenRoom(ctx context.Context, actorID uuid.UUID, input dto.OpenRoomInput) (*model.ChatRoom, error) {
	otherID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, apperror.ErrValidation
	}
	if otherID == actorID {
		return nil, apperror.New(400, "cannot open a chat room with yourself", apperror.ErrValidation)
	}

	if _, err := s.userRepo.FindByID(ctx, otherID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	userA, userB := sortPair(actorID, otherID)

	room, err := s.repo.FindRoomByPair(ctx, userA, userB)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room = &model.ChatRoom{UserAID: userA, UserBID: userB}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		// A concurrent open may have won the race on the unique pair index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.repo.FindRoomByPair(ctx, userA, userB)
		}
		return nil, err
	}

	return s.repo.FindRoomByID(ctx, room.ID)
}

func (s *chatService) ListRooms(ctx context.Context, actorID uuid.UUID) ([]model.ChatRoom, error) {
	return s.repo.FindRoomsByUser(ctx, actorID)
}

// memberOf checks room membership and returns the other member.
func (s *chatService) memberOf(ctx context.Context, actorID, roomID uuid.UUID) (*model.ChatRoom, uuid.UUID, error) {
	room, err := s.repo.FindRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, apperror.ErrNotFound
		}
		return nil, uuid.Nil, err
	}

	switch actorID {
	case room.UserAID:
		return room, room.UserBID, nil
	case room.UserBID:
		return room, room.UserAID, nil
	default:
		return nil, uuid.Nil, apperror.ErrForbidden
	}
}

func (s *chatService) SendMessage(ctx context.Context, actorID, roomID uuid.UUID, input dto.SendMessageInput) (*model.ChatMessage, error) {
	_, recipientID, err := s.memberOf(ctx, actorID, roomID)
	if err != nil {
		return nil, err
	}

	message := &model.ChatMessage{
		RoomID:   roomID,
		SenderID: actorID,
		Body:     strings.TrimSpace(input.Body),
	}
	if message.Body == "" {
		return nil, apperror.ErrValidation
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notifyNewMessage(actorID, recipientID, roomID)
	}

	return message, nil
}

func (s *chatService) ListMessages(ctx context.Context, actorID, roomID uuid.UUID, limit, offset int) ([]model.ChatMessage, error) {
	if _, _, err := s.memberOf(ctx, actorID, roomID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return s.repo.FindMessages(ctx, roomID, limit, offset)
}

func (s *chatService) notifyNewMessage(senderID, recipientID, roomID uuid.UUID) {
	ctx := context.Background()

	senderName := "Someone"
	if sender, err := s.userRepo.FindByID(ctx, senderID.String()); err == nil {
		senderName = sender.Username
	}

	notification := &model.Notification{
		UserID:     recipientID,
		ActorID:    senderID,
		EntityID:   roomID,
		EntityType: "chat_room",
		Type:       "new_message",
		Message:    fmt.Sprintf("%s sent you a message", senderName),
		IsRead:     false,
	}
	_ = s.notificationService.CreateNotification(ctx, notification)
}
