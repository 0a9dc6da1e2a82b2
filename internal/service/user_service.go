package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/swifttax/swifttax-api/internal/client"
	"github.com/swifttax/swifttax-api/internal/model"
	"github.com/swifttax/swifttax-api/internal/repository"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrUserNotFound is returned when a user does not exist
var ErrUserNotFound = errors.New("user not found")

// ErrEmailInUse is returned when creating a user with a taken email
var ErrEmailInUse = errors.New("email already in use")

// userEvent is published to Kafka on user lifecycle changes
type userEvent struct {
	Type    string    `json:"type"`
	UserIDs []int     `json:"userIds"`
	Status  string    `json:"status,omitempty"`
	At      time.Time `json:"at"`
}

// UserService handles core user operations
type UserService struct {
	userRepo    *repository.UserRepository
	documents   *client.DocumentClient
	kafkaWriter *kafka.Writer
	logger      *zap.Logger
}

// NewUserService creates a new user service. documents and kafkaWriter may
// be nil; counter enrichment and event publishing are then skipped.
func NewUserService(
	userRepo *repository.UserRepository,
	documents *client.DocumentClient,
	kafkaWriter *kafka.Writer,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		documents:   documents,
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// GetDetails retrieves a user with the tax form and document counters
// refreshed from the documents service. Enrichment is best effort: on
// failure the stored counters are returned unchanged.
func (s *UserService) GetDetails(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil || user == nil {
		return user, err
	}

	if s.documents != nil {
		counts, err := s.documents.GetCounts(ctx, id)
		if err != nil {
			s.logger.Warn("failed to refresh user counters", zap.Error(err), zap.Int("id", id))
			return user, nil
		}
		user.TaxFormsCount = counts.TaxForms
		user.DocumentsCount = counts.Documents
		if err := s.userRepo.UpdateCounters(ctx, id, counts.TaxForms, counts.Documents); err != nil {
			s.logger.Warn("failed to store refreshed counters", zap.Error(err), zap.Int("id", id))
		}
	}

	return user, nil
}

// List retrieves a filtered, paginated list of users plus the total count
func (s *UserService) List(ctx context.Context, filter model.UserFilter, page, limit int) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit

	users, err := s.userRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if users == nil {
		users = []model.User{}
	}

	count, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

// Create adds a new user. The id is assigned by the database, created_at is
// stamped to now and both counters start at zero no matter what the caller
// supplied. An empty role defaults to "user", an empty status to "active".
func (s *UserService) Create(ctx context.Context, create *model.UserCreate, passwordHash string) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, create.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	if create.Role == "" {
		create.Role = model.RoleUser
	}
	if create.Status == "" {
		create.Status = model.StatusActive
	}

	id, err := s.userRepo.Create(ctx, create, passwordHash)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "user.created", []int{id}, create.Status)

	return s.userRepo.GetByID(ctx, id)
}

// Update applies a partial patch to a user and returns the updated record
func (s *UserService) Update(ctx context.Context, id int, update *model.UserUpdate) (*model.User, error) {
	ok, err := s.userRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	if update.Status != nil {
		s.publishEvent(ctx, "user.status_changed", []int{id}, *update.Status)
	}

	return s.userRepo.GetByID(ctx, id)
}

// UpdateStatus transitions a single user's status
func (s *UserService) UpdateStatus(ctx context.Context, id int, status string) error {
	ok, err := s.userRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}

	s.publishEvent(ctx, "user.status_changed", []int{id}, status)
	return nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id int) error {
	ok, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}

	s.publishEvent(ctx, "user.deleted", []int{id}, "")
	return nil
}

// BulkAction applies one batch transition to every listed user and returns
// the number of rows affected. An empty id list is rejected before any
// database work.
func (s *UserService) BulkAction(ctx context.Context, action string, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, errors.New("no users selected")
	}

	var affected int
	var err error

	switch action {
	case model.BulkActivate:
		affected, err = s.userRepo.UpdateStatusBulk(ctx, ids, model.StatusActive)
	case model.BulkDeactivate:
		affected, err = s.userRepo.UpdateStatusBulk(ctx, ids, model.StatusInactive)
	case model.BulkDelete:
		affected, err = s.userRepo.DeleteBulk(ctx, ids)
	default:
		return 0, errors.New("unknown bulk action")
	}

	if err != nil {
		return 0, err
	}

	s.publishEvent(ctx, "user.bulk_"+action, ids, "")
	return affected, nil
}

// publishEvent writes a user lifecycle event to Kafka, best effort
func (s *UserService) publishEvent(ctx context.Context, eventType string, ids []int, status string) {
	if s.kafkaWriter == nil {
		return
	}

	payload, err := json.Marshal(userEvent{
		Type:    eventType,
		UserIDs: ids,
		Status:  status,
		At:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to encode user event", zap.Error(err))
		return
	}

	if err := s.kafkaWriter.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
		s.logger.Warn("failed to publish user event", zap.Error(err), zap.String("type", eventType))
	}
}
