package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// ReferenceLookup names one lookup row a batch will need.
type ReferenceLookup struct {
	Kind    reference.Kind
	Name    string
	ScopeID string
}

// ReferenceResolver maps display names to lookup ids, creating missing rows.
type ReferenceResolver struct {
	repo    reference.Repository
	workers int
	logger  *logging.Logger
}

func NewReferenceResolver(repo reference.Repository, workers int, logger *logging.Logger) *ReferenceResolver {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReferenceResolver{repo: repo, workers: workers, logger: logger}
}

// Resolve returns the id for name, creating the row when no case-insensitive match exists.
// A blank name, or a scoped kind without its scope, resolves to "" and creates nothing.
func (r *ReferenceResolver) Resolve(ctx context.Context, kind reference.Kind, name, scopeID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	if kind.Scoped() && strings.TrimSpace(scopeID) == "" {
		return "", nil
	}
	if err := kind.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	entity, err := r.repo.FindOrCreate(ctx, kind, name, scopeID)
	if err != nil {
		return "", fmt.Errorf("resolve %s %q: %w", kind, name, err)
	}
	return entity.ID, nil
}

// Prefetch looks up the distinct names of a batch concurrently so the row loop hits the
// cache. It never creates rows; failures only cost the warm-up and are logged.
func (r *ReferenceResolver) Prefetch(ctx context.Context, lookups []ReferenceLookup) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceResolver.Prefetch")
	defer span.End()

	unique := dedupeLookups(lookups)
	span.SetAttributes(attribute.Int("lookups", len(unique)))
	if len(unique) == 0 {
		return
	}

	workers := r.workers
	if workers > len(unique) {
		workers = len(unique)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		r.logger.WarnContext(ctx, "create prefetch worker pool failed", "error", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, lookup := range unique {
		lookup := lookup
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if _, _, err := r.repo.Find(ctx, lookup.Kind, lookup.Name, lookup.ScopeID); err != nil {
				r.logger.DebugContext(ctx, "prefetch reference failed",
					"kind", string(lookup.Kind),
					"name", lookup.Name,
					"error", err,
				)
			}
		}); err != nil {
			wg.Done()
			r.logger.WarnContext(ctx, "submit prefetch task failed", "error", err)
			break
		}
	}
	wg.Wait()
}

func dedupeLookups(lookups []ReferenceLookup) []ReferenceLookup {
	seen := make(map[string]struct{}, len(lookups))
	out := make([]ReferenceLookup, 0, len(lookups))
	for _, l := range lookups {
		name := strings.TrimSpace(l.Name)
		if name == "" || l.Kind.Validate() != nil || (l.Kind.Scoped() && l.ScopeID == "") {
			continue
		}
		key := string(l.Kind) + "\x00" + l.ScopeID + "\x00" + reference.NameKey(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ReferenceLookup{Kind: l.Kind, Name: name, ScopeID: l.ScopeID})
	}
	return out
}
