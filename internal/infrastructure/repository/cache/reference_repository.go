package cache

import (
	"context"
	"strings"

	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	basecache "github.com/riskibarqy/sports-crm-import/internal/platform/cache"
)

// ReferenceRepository memoizes lookup rows. Misses from Find are cached too, but FindOrCreate
// only trusts cached hits and always falls through to next otherwise.
type ReferenceRepository struct {
	next  reference.Repository
	cache *basecache.Store
}

func NewReferenceRepository(next reference.Repository, cache *basecache.Store) *ReferenceRepository {
	return &ReferenceRepository{next: next, cache: cache}
}

func (r *ReferenceRepository) Find(ctx context.Context, kind reference.Kind, name, scopeID string) (reference.Entity, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, referenceKey(kind, name, scopeID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Find(ctx, kind, name, scopeID)
		if err != nil {
			return nil, err
		}
		return cachedReference{value: item, exists: exists}, nil
	})
	if err != nil {
		return reference.Entity{}, false, err
	}

	cached, _ := v.(cachedReference)
	return cached.value, cached.exists, nil
}

func (r *ReferenceRepository) FindOrCreate(ctx context.Context, kind reference.Kind, name, scopeID string) (reference.Entity, error) {
	key := referenceKey(kind, name, scopeID)
	if v, ok := r.cache.Get(ctx, key); ok {
		if cached, _ := v.(cachedReference); cached.exists {
			return cached.value, nil
		}
	}

	item, err := r.next.FindOrCreate(ctx, kind, name, scopeID)
	if err != nil {
		return reference.Entity{}, err
	}
	r.cache.Set(ctx, key, cachedReference{value: item, exists: true})
	return item, nil
}

type cachedReference struct {
	value  reference.Entity
	exists bool
}

func referenceKey(kind reference.Kind, name, scopeID string) string {
	return strings.Join([]string{"reference", string(kind), scopeID, reference.NameKey(name)}, ":")
}
