package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/swifttax/swifttax-api/internal/model"
	"github.com/swifttax/swifttax-api/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultNotificationLimit caps how many notifications the list endpoint
// returns when the caller does not ask for a specific amount.
const DefaultNotificationLimit = 20

// ErrNotificationNotFound is returned when a notification does not exist
// or belongs to another user.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService handles notification operations
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	redisClient      *redis.Client
	countTTL         time.Duration
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service. redisClient may
// be nil, in which case unread counts are always read from the database.
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	redisClient *redis.Client,
	countTTL time.Duration,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		redisClient:      redisClient,
		countTTL:         countTTL,
		logger:           logger,
	}
}

// List retrieves the caller's most recent notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultNotificationLimit
	}

	notifications, err := s.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	return notifications, nil
}

// UnreadCount retrieves the number of unread notifications, served from the
// Redis cache when one is configured
func (s *NotificationService) UnreadCount(ctx context.Context, userID int) (int, error) {
	key := s.countKey(userID)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, key).Result()
		if err == nil {
			if count, convErr := strconv.Atoi(cached); convErr == nil {
				return count, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("unread count cache read failed", zap.Error(err))
		}
	}

	count, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, key, count, s.countTTL).Err(); err != nil {
			s.logger.Warn("unread count cache write failed", zap.Error(err))
		}
	}

	return count, nil
}

// MarkRead marks one of the caller's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int) error {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil || notification.UserID != userID {
		return ErrNotificationNotFound
	}

	if _, err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return err
	}

	s.invalidateCount(ctx, userID)
	return nil
}

// Delete removes one of the caller's notifications
func (s *NotificationService) Delete(ctx context.Context, userID, id int) error {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil || notification.UserID != userID {
		return ErrNotificationNotFound
	}

	if _, err := s.notificationRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCount(ctx, userID)
	return nil
}

// Create adds a notification for a user after checking the user exists and
// is active
func (s *NotificationService) Create(ctx context.Context, create *model.NotificationCreate) (int, error) {
	user, err := s.userRepo.GetByID(ctx, create.UserID)
	if err != nil {
		return 0, err
	}
	if user == nil || user.Status != model.StatusActive {
		return 0, errors.New("user not found or inactive")
	}

	id, err := s.notificationRepo.Create(ctx, create)
	if err != nil {
		return 0, err
	}

	s.invalidateCount(ctx, create.UserID)
	return id, nil
}

func (s *NotificationService) countKey(userID int) string {
	return fmt.Sprintf("swifttax:unread:%d", userID)
}

func (s *NotificationService) invalidateCount(ctx context.Context, userID int) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, s.countKey(userID)).Err(); err != nil {
		s.logger.Warn("unread count cache invalidation failed", zap.Error(err), zap.Int("user_id", userID))
	}
}
