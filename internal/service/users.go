package service

import (
	"context"
	"fmt"

	"sleeper-trade-lab/internal/domain"
)

// User looks a user up by username or user id.
func (s *Service) User(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.gateway.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", username, err)
	}
	return u, nil
}

// UserLeagues lists the leagues a user played in for a season.
func (s *Service) UserLeagues(ctx context.Context, username, season string) ([]domain.LeagueInstance, error) {
	u, err := s.User(ctx, username)
	if err != nil {
		return nil, err
	}
	leagues, err := s.gateway.GetUserLeagues(ctx, u.UserID, season)
	if err != nil {
		return nil, fmt.Errorf("leagues of %s in %s: %w", username, season, err)
	}
	return leagues, nil
}
