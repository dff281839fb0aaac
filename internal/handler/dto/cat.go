// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"errors"
	"fmt"

	"github.com/catsfront/catsfront/internal/model"
)

// CatRequest is the body of create and update requests. Fields are
// pointers so that a missing field is told apart from a zero value.
type CatRequest struct {
	Name   *string  `json:"name"`
	Breed  *string  `json:"breed"`
	Age    *float64 `json:"age"`
	Weight *float64 `json:"weight"`
}

// ToInput converts the request into a CatInput. It reports the first
// missing field as a *model.ValidationError.
func (r CatRequest) ToInput() (model.CatInput, error) {
	switch {
	case r.Name == nil:
		return model.CatInput{}, missing(model.FieldName)
	case r.Breed == nil:
		return model.CatInput{}, missing(model.FieldBreed)
	case r.Age == nil:
		return model.CatInput{}, missing(model.FieldAge)
	case r.Weight == nil:
		return model.CatInput{}, missing(model.FieldWeight)
	}
	return model.CatInput{
		Name:   *r.Name,
		Breed:  *r.Breed,
		Age:    *r.Age,
		Weight: *r.Weight,
	}, nil
}

func missing(field string) error {
	return &model.ValidationError{Field: field, Message: "field required"}
}

// DeleteResponse is returned by a successful delete.
type DeleteResponse struct {
	Message string `json:"message"`
}

// DetailResponse is the error envelope of the collection API.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// ValidationItem is one entry of a 422 body.
type ValidationItem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationResponse is the 422 body, {"detail": [items...]}.
type ValidationResponse struct {
	Detail []ValidationItem `json:"detail"`
}

// NewValidationResponse describes err as a single validation item located
// under loc. Field-level errors extend loc with the field name.
func NewValidationResponse(loc string, err error) ValidationResponse {
	item := ValidationItem{
		Loc:  []string{loc},
		Msg:  err.Error(),
		Type: "value_error",
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		item.Loc = append(item.Loc, verr.Field)
		item.Msg = fmt.Sprintf("%s %s", verr.Field, verr.Message)
		if verr.Message == "field required" {
			item.Type = "missing"
		}
	}

	return ValidationResponse{Detail: []ValidationItem{item}}
}
