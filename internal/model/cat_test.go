package model

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCatInput_Coercion(t *testing.T) {
	t.Parallel()

	in, err := ParseCatInput(" Tom ", "Tabby", "3", "4.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := CatInput{Name: "Tom", Breed: "Tabby", Age: 3, Weight: 4.5}
	if diff := cmp.Diff(want, in); diff != "" {
		t.Errorf("ParseCatInput mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCatInput_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		age       string
		weight    string
		wantField string
		wantNaN   bool
	}{
		{name: "age not a number", age: "three", weight: "4", wantNaN: true},
		{name: "weight not a number", age: "3", weight: "4kg", wantNaN: true},
		{name: "age missing", age: "", weight: "4", wantField: FieldAge},
		{name: "weight blank", age: "3", weight: "   ", wantField: FieldWeight},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseCatInput("Tom", "Tabby", tt.age, tt.weight)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if tt.wantNaN && !errors.Is(err, ErrInvalidNumber) {
				t.Errorf("expected ErrInvalidNumber, got %v", err)
			}

			if tt.wantField != "" {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if vErr.Field != tt.wantField {
					t.Errorf("Field = %s, want %s", vErr.Field, tt.wantField)
				}
			}
		})
	}
}

func TestCatInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     CatInput
		wantField string
	}{
		{name: "valid", input: CatInput{Name: "Tom", Breed: "Tabby", Age: 3, Weight: 4.5}},
		{name: "zero age and weight are allowed", input: CatInput{Name: "Kit", Breed: "Siamese"}},
		{name: "missing name", input: CatInput{Breed: "Tabby", Age: 1, Weight: 1}, wantField: FieldName},
		{name: "blank breed", input: CatInput{Name: "Tom", Breed: "  ", Age: 1, Weight: 1}, wantField: FieldBreed},
		{name: "negative age", input: CatInput{Name: "Tom", Breed: "Tabby", Age: -1, Weight: 1}, wantField: FieldAge},
		{name: "negative weight", input: CatInput{Name: "Tom", Breed: "Tabby", Age: 1, Weight: -0.5}, wantField: FieldWeight},
		{name: "infinite weight", input: CatInput{Name: "Tom", Breed: "Tabby", Age: 1, Weight: math.Inf(1)}, wantField: FieldWeight},
		{name: "NaN age", input: CatInput{Name: "Tom", Breed: "Tabby", Age: math.NaN(), Weight: 1}, wantField: FieldAge},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.input.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %s, want %s", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestCat_CachedRoundTrip(t *testing.T) {
	t.Parallel()

	cat := &Cat{ID: 42, Name: "Tom", Breed: "Tabby", Age: 3, Weight: 4.5}

	cached := cat.ToCachedCat()
	if cached.ID != "42" || cached.Age != "3" || cached.Weight != "4.5" {
		t.Fatalf("unexpected cached form: %+v", cached)
	}

	got, err := cached.ToCat()
	if err != nil {
		t.Fatalf("ToCat: %v", err)
	}
	if diff := cmp.Diff(cat, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCachedCat_ToCat_Corrupt(t *testing.T) {
	t.Parallel()

	_, err := (&CachedCat{ID: "x", Age: "1", Weight: "1"}).ToCat()
	if err == nil {
		t.Fatal("expected error for corrupt id")
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		3:    "3",
		4.5:  "4.5",
		0:    "0",
		0.25: "0.25",
	}
	for in, want := range tests {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%v) = %s, want %s", in, got, want)
		}
	}
}
