package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	basecache "github.com/riskibarqy/sports-crm-import/internal/platform/cache"
)

type countingReferenceRepository struct {
	finds   int
	creates int
	stored  map[string]reference.Entity
	err     error
}

func newCountingReferenceRepository() *countingReferenceRepository {
	return &countingReferenceRepository{stored: make(map[string]reference.Entity)}
}

func (r *countingReferenceRepository) Find(_ context.Context, kind reference.Kind, name, scopeID string) (reference.Entity, bool, error) {
	r.finds++
	if r.err != nil {
		return reference.Entity{}, false, r.err
	}
	item, ok := r.stored[referenceKey(kind, name, scopeID)]
	return item, ok, nil
}

func (r *countingReferenceRepository) FindOrCreate(_ context.Context, kind reference.Kind, name, scopeID string) (reference.Entity, error) {
	r.creates++
	if r.err != nil {
		return reference.Entity{}, r.err
	}
	key := referenceKey(kind, name, scopeID)
	if item, ok := r.stored[key]; ok {
		return item, nil
	}
	item := reference.Entity{ID: string(kind) + "-1", Kind: kind, Name: name, ScopeID: scopeID}
	r.stored[key] = item
	return item, nil
}

func TestReferenceRepository_FindOrCreateCachesHits(t *testing.T) {
	ctx := context.Background()
	next := newCountingReferenceRepository()
	repo := NewReferenceRepository(next, basecache.NewStore(time.Minute))

	first, err := repo.FindOrCreate(ctx, reference.KindSport, "Football", "")
	if err != nil {
		t.Fatalf("first FindOrCreate: %v", err)
	}
	second, err := repo.FindOrCreate(ctx, reference.KindSport, "  FOOTBALL ", "")
	if err != nil {
		t.Fatalf("second FindOrCreate: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same id, got %s and %s", first.ID, second.ID)
	}
	if next.creates != 1 {
		t.Fatalf("expected one underlying create, got %d", next.creates)
	}

	found, ok, err := repo.Find(ctx, reference.KindSport, "football", "")
	if err != nil || !ok || found.ID != first.ID {
		t.Fatalf("unexpected Find result: %+v ok=%v err=%v", found, ok, err)
	}
	if next.finds != 0 {
		t.Fatalf("expected Find to be served from cache, got %d underlying finds", next.finds)
	}
}

func TestReferenceRepository_CachedMissDoesNotBlockCreate(t *testing.T) {
	ctx := context.Background()
	next := newCountingReferenceRepository()
	repo := NewReferenceRepository(next, basecache.NewStore(time.Minute))

	if _, ok, err := repo.Find(ctx, reference.KindCountry, "England", ""); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	created, err := repo.FindOrCreate(ctx, reference.KindCountry, "England", "")
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if created.ID == "" || next.creates != 1 {
		t.Fatalf("expected underlying create after cached miss, got %+v creates=%d", created, next.creates)
	}
	if _, ok, _ := repo.Find(ctx, reference.KindCountry, "england", ""); !ok {
		t.Fatalf("expected created row to replace cached miss")
	}
}

func TestReferenceRepository_ScopesCities(t *testing.T) {
	if referenceKey(reference.KindCity, "London", "gb") == referenceKey(reference.KindCity, "London", "ca") {
		t.Fatalf("expected city keys to differ by scope")
	}
}

func TestReferenceRepository_DoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := newCountingReferenceRepository()
	next.err = errors.New("db down")
	repo := NewReferenceRepository(next, basecache.NewStore(time.Minute))

	if _, err := repo.FindOrCreate(ctx, reference.KindSport, "Rugby", ""); err == nil {
		t.Fatalf("expected error")
	}
	next.err = nil
	if _, err := repo.FindOrCreate(ctx, reference.KindSport, "Rugby", ""); err != nil {
		t.Fatalf("expected recovery after error, got %v", err)
	}
	if next.creates != 2 {
		t.Fatalf("expected two underlying creates, got %d", next.creates)
	}
}
