package catsync

import (
	"context"

	"github.com/catsfront/catsfront/internal/model"
)

// Collection is the remote collection resource the controller keeps the
// table in sync with. apiclient.Client implements it.
type Collection interface {
	List(ctx context.Context) ([]model.Cat, error)
	Create(ctx context.Context, in model.CatInput) (*model.Cat, error)
	Update(ctx context.Context, id int64, in model.CatInput) (*model.Cat, error)
	Delete(ctx context.Context, id int64) error
}

// Notifier presents a user-visible alert.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Alert calls f(message).
func (f NotifierFunc) Alert(message string) { f(message) }

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Accept and Decline are fixed answers to a confirmation prompt.
var (
	Accept  Confirmer = ConfirmerFunc(func(string) bool { return true })
	Decline Confirmer = ConfirmerFunc(func(string) bool { return false })
)
