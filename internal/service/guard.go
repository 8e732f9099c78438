package service

import (
	"context"
	"fmt"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

func auditDetails(format string, args ...any) *string {
	s := fmt.Sprintf(format, args...)
	return &s
}

// guard bundles the checks every matchmaking operation runs on its actor:
// the user exists, is not blacklisted, and has a complete profile.
type guard struct {
	userRepo      repository.UserRepository
	blacklistRepo repository.BlacklistRepository
}

func (g *guard) participant(ctx context.Context, userID int64) (*domain.User, error) {
	banned, err := g.blacklistRepo.IsBanned(ctx, userID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, domain.Authorizationf("user %d is banned", userID)
	}
	user, err := g.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.ProfileComplete() {
		return nil, domain.Validationf("profile of user %d is incomplete", userID)
	}
	return user, nil
}
