package team

import (
	"context"
	"errors"
)

// ErrDuplicate reports that a team with the same name, city and country already exists.
var ErrDuplicate = errors.New("team already exists")

// Repository describes team persistence needs of the import use cases.
type Repository interface {
	// ListRefs returns every team with its city and country names for duplicate detection.
	ListRefs(ctx context.Context) ([]Ref, error)
	// FindByName returns all teams whose name matches case-insensitively.
	FindByName(ctx context.Context, name string) ([]Ref, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	// Create stores the team with its social links and opening hours atomically. It returns
	// ErrDuplicate when the natural key is already taken.
	Create(ctx context.Context, item Team) (Team, error)
	Update(ctx context.Context, patch Patch) error
}
