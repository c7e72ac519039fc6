package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/domain/team"
	"github.com/riskibarqy/sports-crm-import/internal/platform/id"
)

type TeamRepository struct {
	mu    sync.RWMutex
	ids   id.Generator
	order []string
	teams map[string]team.Team
}

func NewTeamRepository(ids id.Generator, seed ...team.Team) *TeamRepository {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	r := &TeamRepository{ids: ids, teams: make(map[string]team.Team, len(seed))}
	for _, item := range seed {
		r.order = append(r.order, item.ID)
		r.teams[item.ID] = cloneTeam(item)
	}
	return r
}

func (r *TeamRepository) ListRefs(_ context.Context) ([]team.Ref, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Ref, 0, len(r.order))
	for _, teamID := range r.order {
		out = append(out, r.teams[teamID].Ref())
	}
	return out, nil
}

func (r *TeamRepository) FindByName(_ context.Context, name string) ([]team.Ref, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := reference.NameKey(name)
	var out []team.Ref
	for _, teamID := range r.order {
		item := r.teams[teamID]
		if reference.NameKey(item.Name) == key {
			out = append(out, item.Ref())
		}
	}
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[teamID]
	if !ok {
		return team.Team{}, false, nil
	}
	return cloneTeam(item), true, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) (team.Team, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}
	newID, err := r.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	item.ID = newID

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.teams {
		if sameNaturalKey(stored, item) {
			return team.Team{}, fmt.Errorf("create team %q: %w", item.Name, team.ErrDuplicate)
		}
	}
	r.order = append(r.order, item.ID)
	r.teams[item.ID] = cloneTeam(item)
	return cloneTeam(item), nil
}

func (r *TeamRepository) Update(_ context.Context, patch team.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[patch.TeamID]
	if !ok {
		return fmt.Errorf("team %s not found", patch.TeamID)
	}
	patch.Apply(&item)
	r.teams[item.ID] = cloneTeam(item)
	return nil
}

// Len returns the number of stored teams.
func (r *TeamRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func cloneTeam(item team.Team) team.Team {
	item.SocialLinks = append([]team.SocialLink(nil), item.SocialLinks...)
	item.OpeningHours = append([]team.OpeningHours(nil), item.OpeningHours...)
	return item
}

func sameNaturalKey(a, b team.Team) bool {
	return reference.NameKey(a.Name) == reference.NameKey(b.Name) &&
		reference.NameKey(a.City) == reference.NameKey(b.City) &&
		reference.NameKey(a.Country) == reference.NameKey(b.Country)
}
