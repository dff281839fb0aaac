package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/catsfront/catsfront/internal/cache"
	"github.com/catsfront/catsfront/internal/metrics"
	"github.com/catsfront/catsfront/internal/model"
	"github.com/catsfront/catsfront/internal/repository"
)

type fakeCache struct {
	cats    map[int64]model.Cat
	getErr  error
	deleted []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{cats: make(map[int64]model.Cat)}
}

func (f *fakeCache) GetCat(ctx context.Context, id int64) (*model.Cat, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	cat, ok := f.cats[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &cat, nil
}

func (f *fakeCache) SetCat(ctx context.Context, cat *model.Cat) error {
	f.cats[cat.ID] = *cat
	return nil
}

func (f *fakeCache) DeleteCat(ctx context.Context, id int64) error {
	delete(f.cats, id)
	f.deleted = append(f.deleted, id)
	return nil
}

var tabby = model.CatInput{Name: "Tom", Breed: "Tabby", Age: 3, Weight: 4.5}

func newTestService(t *testing.T, c Cache) (*CatService, *repository.MemoryStore, *metrics.InMemoryRecorder) {
	t.Helper()
	store := repository.NewMemoryStore()
	rec := metrics.NewInMemory()
	return NewCatService(store, c, rec, nil), store, rec
}

func TestCatService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	c := newFakeCache()
	svc, _, rec := newTestService(t, c)

	created, err := svc.CreateCat(ctx, tabby)
	if err != nil {
		t.Fatalf("CreateCat: %v", err)
	}
	want := tabby.WithID(1)
	if diff := cmp.Diff(want, created); diff != "" {
		t.Errorf("created cat mismatch (-want +got):\n%s", diff)
	}

	// First read misses and fills the cache, second read hits.
	for i := 0; i < 2; i++ {
		got, err := svc.GetCat(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetCat #%d: %v", i, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GetCat #%d mismatch (-want +got):\n%s", i, diff)
		}
	}

	snap := rec.Snapshot()
	if snap.CatCacheMisses != 1 || snap.CatCacheHits != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 1/1", snap.CatCacheHits, snap.CatCacheMisses)
	}
	if snap.CatsCreated != 1 {
		t.Errorf("CatsCreated = %d, want 1", snap.CatsCreated)
	}
}

func TestCatService_CreateInvalid(t *testing.T) {
	svc, store, _ := newTestService(t, nil)

	_, err := svc.CreateCat(context.Background(), model.CatInput{Name: "Tom", Breed: "Tabby", Age: -1, Weight: 1})
	if !errors.Is(err, ErrInvalidCat) {
		t.Fatalf("expected ErrInvalidCat, got %v", err)
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.Field != model.FieldAge {
		t.Errorf("expected validation error on age, got %v", err)
	}

	cats, _ := store.ListCats(context.Background(), 0, 10)
	if len(cats) != 0 {
		t.Errorf("invalid cat was stored: %v", cats)
	}
}

func TestCatService_UpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	c := newFakeCache()
	svc, _, rec := newTestService(t, c)

	created, err := svc.CreateCat(ctx, tabby)
	if err != nil {
		t.Fatalf("CreateCat: %v", err)
	}
	if _, err := svc.GetCat(ctx, created.ID); err != nil {
		t.Fatalf("GetCat: %v", err)
	}

	older := tabby
	older.Age = 4
	updated, err := svc.UpdateCat(ctx, created.ID, older)
	if err != nil {
		t.Fatalf("UpdateCat: %v", err)
	}
	if updated.Age != 4 {
		t.Errorf("updated age = %v, want 4", updated.Age)
	}
	if _, ok := c.cats[created.ID]; ok {
		t.Error("cache entry survived update")
	}

	got, err := svc.GetCat(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCat after update: %v", err)
	}
	if got.Age != 4 {
		t.Errorf("GetCat after update age = %v, want 4", got.Age)
	}
	if rec.Snapshot().CatsUpdated != 1 {
		t.Errorf("CatsUpdated = %d, want 1", rec.Snapshot().CatsUpdated)
	}
}

func TestCatService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, newFakeCache())

	if _, err := svc.GetCat(ctx, 42); !errors.Is(err, ErrCatNotFound) {
		t.Errorf("GetCat: expected ErrCatNotFound, got %v", err)
	}
	if _, err := svc.UpdateCat(ctx, 42, tabby); !errors.Is(err, ErrCatNotFound) {
		t.Errorf("UpdateCat: expected ErrCatNotFound, got %v", err)
	}
	if err := svc.DeleteCat(ctx, 42); !errors.Is(err, ErrCatNotFound) {
		t.Errorf("DeleteCat: expected ErrCatNotFound, got %v", err)
	}
}

func TestCatService_Delete(t *testing.T) {
	ctx := context.Background()
	c := newFakeCache()
	svc, _, rec := newTestService(t, c)

	created, _ := svc.CreateCat(ctx, tabby)
	if err := svc.DeleteCat(ctx, created.ID); err != nil {
		t.Fatalf("DeleteCat: %v", err)
	}
	if diff := cmp.Diff([]int64{created.ID}, c.deleted); diff != "" {
		t.Errorf("invalidated ids mismatch (-want +got):\n%s", diff)
	}
	if _, err := svc.GetCat(ctx, created.ID); !errors.Is(err, ErrCatNotFound) {
		t.Errorf("expected ErrCatNotFound after delete, got %v", err)
	}
	if rec.Snapshot().CatsDeleted != 1 {
		t.Errorf("CatsDeleted = %d, want 1", rec.Snapshot().CatsDeleted)
	}
}

func TestCatService_CacheErrorFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	c := newFakeCache()
	svc, _, rec := newTestService(t, c)

	created, _ := svc.CreateCat(ctx, tabby)
	c.getErr = errors.New("connection refused")

	got, err := svc.GetCat(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCat: %v", err)
	}
	if got.Name != "Tom" {
		t.Errorf("name = %q, want Tom", got.Name)
	}
	snap := rec.Snapshot()
	if snap.CatCacheHits != 0 || snap.CatCacheMisses != 0 {
		t.Errorf("cache error counted as hit/miss: %+v", snap)
	}
}

func TestCatService_ListCats(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, nil)

	for _, name := range []string{"A", "B", "C"} {
		in := tabby
		in.Name = name
		if _, err := svc.CreateCat(ctx, in); err != nil {
			t.Fatalf("CreateCat %s: %v", name, err)
		}
	}

	tests := []struct {
		name        string
		skip, limit int
		want        []string
		wantErr     bool
	}{
		{name: "all", skip: 0, limit: DefaultLimit, want: []string{"A", "B", "C"}},
		{name: "skip", skip: 1, limit: DefaultLimit, want: []string{"B", "C"}},
		{name: "limit", skip: 0, limit: 2, want: []string{"A", "B"}},
		{name: "zero limit", skip: 0, limit: 0, want: []string{}},
		{name: "negative skip", skip: -1, limit: 10, wantErr: true},
		{name: "negative limit", skip: 0, limit: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats, err := svc.ListCats(ctx, tt.skip, tt.limit)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("expected ErrInvalidRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ListCats: %v", err)
			}
			names := make([]string, 0, len(cats))
			for _, c := range cats {
				names = append(names, c.Name)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
