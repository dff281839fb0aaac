// Package model defines domain entities for the application.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field names as they appear in forms and JSON bodies.
const (
	FieldID     = "id"
	FieldName   = "name"
	FieldBreed  = "breed"
	FieldAge    = "age"
	FieldWeight = "weight"
)

// ErrInvalidNumber is returned when a numeric form field cannot be parsed.
var ErrInvalidNumber = errors.New("invalid number")

// Cat represents a cat record as stored by the collection resource.
type Cat struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Breed  string  `json:"breed"`
	Age    float64 `json:"age"`
	Weight float64 `json:"weight"`
}

// CatInput is the body of create and update requests. It carries every
// field of Cat except the server-assigned ID.
type CatInput struct {
	Name   string  `json:"name"`
	Breed  string  `json:"breed"`
	Age    float64 `json:"age"`
	Weight float64 `json:"weight"`
}

// Input returns the mutable fields of the cat.
func (c *Cat) Input() CatInput {
	return CatInput{
		Name:   c.Name,
		Breed:  c.Breed,
		Age:    c.Age,
		Weight: c.Weight,
	}
}

// WithID builds a Cat from the input and a server-assigned ID.
func (in CatInput) WithID(id int64) *Cat {
	return &Cat{
		ID:     id,
		Name:   in.Name,
		Breed:  in.Breed,
		Age:    in.Age,
		Weight: in.Weight,
	}
}

// ValidationError describes the first invalid field of a CatInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks that all fields are present and numbers are non-negative.
func (in CatInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: FieldName, Message: "is required"}
	}
	if strings.TrimSpace(in.Breed) == "" {
		return &ValidationError{Field: FieldBreed, Message: "is required"}
	}
	if err := validateAmount(FieldAge, in.Age); err != nil {
		return err
	}
	return validateAmount(FieldWeight, in.Weight)
}

func validateAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Message: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}

// ParseCatInput builds a CatInput from raw form values, coercing age and
// weight to floating point. It does not validate ranges; call Validate.
func ParseCatInput(name, breed, age, weight string) (CatInput, error) {
	in := CatInput{
		Name:  strings.TrimSpace(name),
		Breed: strings.TrimSpace(breed),
	}

	var err error
	if in.Age, err = parseAmount(FieldAge, age); err != nil {
		return in, err
	}
	if in.Weight, err = parseAmount(FieldWeight, weight); err != nil {
		return in, err
	}
	return in, nil
}

func parseAmount(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: field, Message: "is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, ErrInvalidNumber)
	}
	return v, nil
}

// FormatAmount renders a numeric field the way it is shown in tables and
// pre-filled forms: shortest representation, no trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CachedCat is the flattened representation of a Cat stored in a cache hash.
type CachedCat struct {
	ID     string
	Name   string
	Breed  string
	Age    string
	Weight string
}

// ToCachedCat converts a Cat to its cache representation.
func (c *Cat) ToCachedCat() *CachedCat {
	return &CachedCat{
		ID:     strconv.FormatInt(c.ID, 10),
		Name:   c.Name,
		Breed:  c.Breed,
		Age:    FormatAmount(c.Age),
		Weight: FormatAmount(c.Weight),
	}
}

// ToCat parses the cache representation back into a Cat.
func (cc *CachedCat) ToCat() (*Cat, error) {
	id, err := strconv.ParseInt(cc.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cached id: %w", err)
	}
	age, err := strconv.ParseFloat(cc.Age, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cached age: %w", err)
	}
	weight, err := strconv.ParseFloat(cc.Weight, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cached weight: %w", err)
	}
	return &Cat{ID: id, Name: cc.Name, Breed: cc.Breed, Age: age, Weight: weight}, nil
}
