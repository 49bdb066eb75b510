package user

import (
	"context"

	"github.com/wgparish/buy-it-for-life-tracker/app/common/rest/auth"
)

type Service struct {
	repository *Repository
}

func NewService(repository *Repository) *Service {
	return &Service{repository: repository}
}

// SyncProfile records the profile carried by the access token, creating the
// user on first login.
func (s *Service) SyncProfile(ctx context.Context, claims *auth.Claims) (*DBModel, error) {
	return s.repository.GetOrCreate(ctx, claims.UserID(), claims.Email, claims.Name, claims.Picture)
}
