package catsync

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/catsfront/catsfront/internal/model"
)

// AddForm holds the raw values of the add form as the user typed them.
type AddForm struct {
	Name   string
	Breed  string
	Age    string
	Weight string
}

// IsZero reports whether every field is empty.
func (f AddForm) IsZero() bool {
	return f == AddForm{}
}

// Input coerces and validates the form.
func (f AddForm) Input() (model.CatInput, error) {
	return parseInput(f.Name, f.Breed, f.Age, f.Weight)
}

// EditForm holds the values of the edit surface. ID is the hidden
// identifier field the update is addressed by.
type EditForm struct {
	ID     string
	Name   string
	Breed  string
	Age    string
	Weight string
}

// EditFormFor pre-fills an edit form with the current values of a cat.
func EditFormFor(cat model.Cat) EditForm {
	return EditForm{
		ID:     strconv.FormatInt(cat.ID, 10),
		Name:   cat.Name,
		Breed:  cat.Breed,
		Age:    model.FormatAmount(cat.Age),
		Weight: model.FormatAmount(cat.Weight),
	}
}

// Target parses the hidden identifier.
func (f EditForm) Target() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(f.ID), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid cat id %q", f.ID)
	}
	return id, nil
}

// Input coerces and validates the form.
func (f EditForm) Input() (model.CatInput, error) {
	return parseInput(f.Name, f.Breed, f.Age, f.Weight)
}

func parseInput(name, breed, age, weight string) (model.CatInput, error) {
	in, err := model.ParseCatInput(name, breed, age, weight)
	if err != nil {
		return in, err
	}
	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}
