package service

import (
	"context"
	"fmt"
	"strings"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

const (
	minRating = 0
	maxRating = 3000
)

type userService struct {
	userRepo repository.UserRepository
	auditLog repository.AuditLogRepository
}

func NewUserService(userRepo repository.UserRepository, auditLog repository.AuditLogRepository) UserService {
	return &userService{userRepo: userRepo, auditLog: auditLog}
}

func (s *userService) Touch(ctx context.Context, id int64, contactHandle *string) error {
	return s.userRepo.EnsureExists(ctx, id, normalizeHandle(contactHandle))
}

func (s *userService) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) SetName(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Validationf("name must not be empty")
	}
	if len(name) > 64 {
		return domain.Validationf("name must be at most 64 characters")
	}
	return s.userRepo.UpdateName(ctx, id, name)
}

func (s *userService) SetRating(ctx context.Context, id int64, rating float64) error {
	if rating < minRating || rating > maxRating {
		return domain.Validationf("rating must be between %d and %d", minRating, maxRating)
	}
	return s.userRepo.UpdateRating(ctx, id, rating)
}

func (s *userService) SetGender(ctx context.Context, id int64, gender domain.Gender) error {
	if gender != domain.GenderMale && gender != domain.GenderFemale {
		return domain.Validationf("unknown gender %q", gender)
	}
	return s.userRepo.UpdateGender(ctx, id, gender)
}

func (s *userService) ProfileComplete(ctx context.Context, id int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user.ProfileComplete(), nil
}

func (s *userService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	details := fmt.Sprintf("user_id=%d", id)
	_ = s.auditLog.Create(ctx, domain.AuditUserDeleted, &details)
	return nil
}

// normalizeHandle strips a leading @ and surrounding whitespace; empty
// handles collapse to nil.
func normalizeHandle(handle *string) *string {
	if handle == nil {
		return nil
	}
	h := strings.TrimPrefix(strings.TrimSpace(*handle), "@")
	if h == "" {
		return nil
	}
	return &h
}
