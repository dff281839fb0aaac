package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/catsfront/catsfront/internal/model"
)

func TestMemoryStore_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	tom, err := store.CreateCat(ctx, model.CatInput{Name: "Tom", Breed: "Tabby", Age: 3, Weight: 4.5})
	if err != nil {
		t.Fatalf("CreateCat: %v", err)
	}
	kit, _ := store.CreateCat(ctx, model.CatInput{Name: "Kit", Breed: "Siamese", Age: 1, Weight: 2})

	if tom.ID != 1 || kit.ID != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", tom.ID, kit.ID)
	}

	got, err := store.GetCat(ctx, tom.ID)
	if err != nil {
		t.Fatalf("GetCat: %v", err)
	}
	if diff := cmp.Diff(tom, got); diff != "" {
		t.Errorf("GetCat mismatch (-want +got):\n%s", diff)
	}

	updated, err := store.UpdateCat(ctx, tom.ID, model.CatInput{Name: "Thomas", Breed: "Tabby", Age: 4, Weight: 5})
	if err != nil {
		t.Fatalf("UpdateCat: %v", err)
	}
	if updated.ID != tom.ID || updated.Name != "Thomas" {
		t.Errorf("unexpected update result %+v", updated)
	}

	if err := store.DeleteCat(ctx, tom.ID); err != nil {
		t.Fatalf("DeleteCat: %v", err)
	}

	list, _ := store.ListCats(ctx, 0, 100)
	if diff := cmp.Diff([]model.Cat{*kit}, list); diff != "" {
		t.Errorf("ListCats mismatch (-want +got):\n%s", diff)
	}

	again, _ := store.CreateCat(ctx, model.CatInput{Name: "New", Breed: "Mix"})
	if again.ID != 3 {
		t.Errorf("ids must not be reused, got %d", again.ID)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.GetCat(ctx, 9); !errors.Is(err, ErrCatNotFound) {
		t.Errorf("GetCat err = %v", err)
	}
	if _, err := store.UpdateCat(ctx, 9, model.CatInput{Name: "x", Breed: "y"}); !errors.Is(err, ErrCatNotFound) {
		t.Errorf("UpdateCat err = %v", err)
	}
	if err := store.DeleteCat(ctx, 9); !errors.Is(err, ErrCatNotFound) {
		t.Errorf("DeleteCat err = %v", err)
	}
}

func TestMemoryStore_ListPaging(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	for _, name := range []string{"a", "b", "c", "d"} {
		_, _ = store.CreateCat(ctx, model.CatInput{Name: name, Breed: "x"})
	}

	tests := []struct {
		name        string
		skip, limit int
		want        []string
	}{
		{name: "all", skip: 0, limit: 100, want: []string{"a", "b", "c", "d"}},
		{name: "skip", skip: 2, limit: 100, want: []string{"c", "d"}},
		{name: "limit", skip: 1, limit: 2, want: []string{"b", "c"}},
		{name: "past end", skip: 10, limit: 5, want: []string{}},
		{name: "zero limit", skip: 0, limit: 0, want: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cats, err := store.ListCats(ctx, tt.skip, tt.limit)
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
