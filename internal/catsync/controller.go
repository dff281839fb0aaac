// Package catsync keeps a client-side table of cats in sync with the remote
// collection resource.
//
// The table is a transient cache of the server's collection: every mutation
// (create, update, delete) is followed by a full List that replaces it. The
// controller also owns the add form and the edit surface, and reports every
// failure through a Notifier.
package catsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/catsfront/catsfront/internal/apiclient"
	"github.com/catsfront/catsfront/internal/busy"
	"github.com/catsfront/catsfront/internal/metrics"
	"github.com/catsfront/catsfront/internal/model"
)

// DeletePrompt is the confirmation asked before every delete.
const DeletePrompt = "Are you sure you want to delete this cat?"

// Actions named in alerts ("Error <action> cat: <message>").
const (
	actionFetching = "fetching"
	actionAdding   = "adding"
	actionEditing  = "editing"
	actionUpdating = "updating"
	actionDeleting = "deleting"
)

// Controller errors.
var (
	ErrEditClosed = errors.New("edit surface is not open")
	ErrNotInTable = errors.New("cat is not in the table")
)

// Options configures optional controller dependencies.
type Options struct {
	Logger  *slog.Logger
	Metrics metrics.Recorder
	// Busy is reported in View.Busy. It is normally the indicator the
	// collection client's BusyHook drives.
	Busy *busy.Indicator
	// Now overrides the clock used for View.RefreshedAt.
	Now func() time.Time
}

// Controller is the cat list sync controller. It is safe for concurrent
// use; the view is only mutated under its lock and the lock is never held
// across a call to the collection.
type Controller struct {
	coll     Collection
	notifier Notifier
	logger   *slog.Logger
	metrics  metrics.Recorder
	busy     *busy.Indicator
	now      func() time.Time

	mu          sync.Mutex
	table       table
	add         AddForm
	edit        EditSurface
	loaded      bool
	refreshedAt time.Time

	// issued is the sequence number of the latest dispatched List and
	// applied the one whose result currently fills the table. A List
	// result is applied only if its number is greater than applied.
	issued  uint64
	applied uint64
}

// New creates a Controller.
func New(coll Collection, notifier Notifier, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	return &Controller{
		coll:     coll,
		notifier: notifier,
		logger:   opts.Logger.With("component", "catsync"),
		metrics:  opts.Metrics,
		busy:     opts.Busy,
		now:      opts.Now,
		table:    newTable(nil),
	}
}

// List fetches the full collection and replaces the table with it. On
// failure the previous table is kept. A result that arrives after a newer
// List has already been applied is discarded.
func (c *Controller) List(ctx context.Context) error {
	seq := c.dispatchList()

	cats, err := c.coll.List(ctx)
	if err != nil {
		c.metrics.IncListRefresh(metrics.ListFailed)
		c.fail(ctx, actionFetching, err)
		return err
	}

	if !c.applyList(seq, cats) {
		c.metrics.IncListRefresh(metrics.ListStale)
		c.logger.DebugContext(ctx, "list_discarded_stale", "seq", seq)
		return nil
	}

	c.metrics.IncListRefresh(metrics.ListApplied)
	c.logger.DebugContext(ctx, "list_applied", "seq", seq, "rows", len(cats))
	return nil
}

func (c *Controller) dispatchList() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

func (c *Controller) applyList(seq uint64, cats []model.Cat) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.applied {
		return false
	}
	c.applied = seq
	c.table = newTable(cats)
	c.loaded = true
	c.refreshedAt = c.now()
	return true
}

// Create submits the add form. The form keeps what the user typed until
// the create succeeds; it is then cleared and the table refreshed.
func (c *Controller) Create(ctx context.Context, form AddForm) error {
	c.mu.Lock()
	c.add = form
	c.mu.Unlock()

	in, err := form.Input()
	if err != nil {
		c.metrics.IncMutation(apiclient.OpCreate, metrics.StatusFailed)
		c.fail(ctx, actionAdding, err)
		return err
	}

	cat, err := c.coll.Create(ctx, in)
	if err != nil {
		c.metrics.IncMutation(apiclient.OpCreate, metrics.StatusFailed)
		c.fail(ctx, actionAdding, err)
		return err
	}

	c.mu.Lock()
	c.add = AddForm{}
	c.mu.Unlock()

	c.metrics.IncMutation(apiclient.OpCreate, metrics.StatusSuccess)
	c.logger.InfoContext(ctx, "cat_created", "cat_id", cat.ID)

	return c.List(ctx)
}

// OpenEdit opens the edit surface pre-filled with the row for id. Opening
// while already open re-targets the surface.
func (c *Controller) OpenEdit(id int64) error {
	c.mu.Lock()
	cat, ok := c.table.row(id)
	if ok {
		c.edit = EditSurface{State: EditOpen, Form: EditFormFor(cat)}
	}
	c.mu.Unlock()

	if !ok {
		err := fmt.Errorf("%w: %d", ErrNotInTable, id)
		c.fail(context.Background(), actionEditing, err)
		return err
	}
	return nil
}

// CloseEdit closes the edit surface without issuing a request. It reports
// whether the surface was open.
func (c *Controller) CloseEdit(reason CloseReason) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeEditLocked(reason)
}

func (c *Controller) closeEditLocked(reason CloseReason) bool {
	if c.edit.State != EditOpen {
		return false
	}
	c.edit = EditSurface{State: EditClosed, LastClose: reason}
	return true
}

// closeEditFor closes the surface only while it still targets id. An
// OpenEdit that re-targeted the surface during an update keeps it open.
func (c *Controller) closeEditFor(id int64, reason CloseReason) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if target, err := c.edit.Form.Target(); err != nil || target != id {
		return false
	}
	return c.closeEditLocked(reason)
}

// Update submits the edit form, addressed by its hidden identifier. On
// success the surface closes and the table is refreshed; on failure the
// surface stays open with the submitted values.
func (c *Controller) Update(ctx context.Context, form EditForm) error {
	c.mu.Lock()
	if c.edit.State != EditOpen {
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "update_ignored_closed_surface", "cat_id", form.ID)
		return ErrEditClosed
	}
	c.edit.Form = form
	c.mu.Unlock()

	id, err := form.Target()
	if err != nil {
		c.metrics.IncMutation(apiclient.OpUpdate, metrics.StatusFailed)
		c.fail(ctx, actionUpdating, err)
		return err
	}

	in, err := form.Input()
	if err != nil {
		c.metrics.IncMutation(apiclient.OpUpdate, metrics.StatusFailed)
		c.fail(ctx, actionUpdating, err)
		return err
	}

	if _, err := c.coll.Update(ctx, id, in); err != nil {
		c.metrics.IncMutation(apiclient.OpUpdate, metrics.StatusFailed)
		c.fail(ctx, actionUpdating, err)
		return err
	}

	c.closeEditFor(id, CloseUpdated)
	c.metrics.IncMutation(apiclient.OpUpdate, metrics.StatusSuccess)
	c.logger.InfoContext(ctx, "cat_updated", "cat_id", id)

	return c.List(ctx)
}

// Delete asks confirm for confirmation and, if given, deletes the cat and
// refreshes the table. A declined confirmation issues no request.
func (c *Controller) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		c.metrics.IncMutation(apiclient.OpDelete, metrics.StatusDeclined)
		return nil
	}

	if err := c.coll.Delete(ctx, id); err != nil {
		c.metrics.IncMutation(apiclient.OpDelete, metrics.StatusFailed)
		c.fail(ctx, actionDeleting, err)
		return err
	}

	c.metrics.IncMutation(apiclient.OpDelete, metrics.StatusSuccess)
	c.logger.InfoContext(ctx, "cat_deleted", "cat_id", id)

	return c.List(ctx)
}

// Row returns the cat currently shown for id.
func (c *Controller) Row(id int64) (model.Cat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.row(id)
}

// Loaded reports whether any List has been applied.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Snapshot returns a copy of the current view.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	v := View{
		Rows:        c.table.rowsCopy(),
		Add:         c.add,
		Edit:        c.edit,
		Loaded:      c.loaded,
		RefreshedAt: c.refreshedAt,
	}
	c.mu.Unlock()

	if c.busy != nil {
		v.Busy = c.busy.Busy()
	}
	return v
}

// fail logs err and alerts the user with the best available message.
func (c *Controller) fail(ctx context.Context, action string, err error) {
	msg := apiclient.UserMessage(err)

	attrs := []any{"action", action, "error", err}
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) {
		attrs = append(attrs, "status", reqErr.Status, "detail", reqErr.Detail)
	}
	c.logger.ErrorContext(ctx, "cat_operation_failed", attrs...)

	c.notifier.Alert(fmt.Sprintf("Error %s cat: %s", action, msg))
}
