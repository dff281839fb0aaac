package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/catsfront/catsfront/internal/catsync"
	"github.com/catsfront/catsfront/internal/model"
)

// confirmation is the delete dialog shown in place of a browser confirm().
type confirmation struct {
	Cat    model.Cat
	Prompt string
}

type pageData struct {
	View    catsync.View
	Alerts  []string
	Confirm *confirmation
}

// index renders the page. It lists first unless the post that redirected
// here already refreshed the table. A session that never loaded (new or
// expired) always lists.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.TakeFresh() || !sess.Controller.Loaded() {
		// Failures are alerted by the controller.
		_ = sess.Controller.List(r.Context())
	}
	s.render(w, r, nil)
}

// ensureLoaded lists once for a session that has no table yet, so row
// lookups after a session expiry see the server's collection.
func (s *Server) ensureLoaded(r *http.Request) {
	sess := sessionFrom(r)
	if !sess.Controller.Loaded() {
		_ = sess.Controller.List(r.Context())
	}
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	_ = sess.Controller.List(r.Context())
	s.done(w, r)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !s.parseForm(w, r, "adding") {
		return
	}
	_ = sess.Controller.Create(r.Context(), catsync.AddForm{
		Name:   r.PostFormValue(model.FieldName),
		Breed:  r.PostFormValue(model.FieldBreed),
		Age:    r.PostFormValue(model.FieldAge),
		Weight: r.PostFormValue(model.FieldWeight),
	})
	s.done(w, r)
}

// openEdit opens the edit surface and renders the page with it.
func (s *Server) openEdit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	id, ok := s.pathID(w, r, "editing")
	if !ok {
		return
	}
	s.ensureLoaded(r)
	if err := sess.Controller.OpenEdit(id); err != nil {
		s.done(w, r)
		return
	}
	s.render(w, r, nil)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !s.parseForm(w, r, "updating") {
		return
	}
	err := sess.Controller.Update(r.Context(), catsync.EditForm{
		ID:     r.PostFormValue(model.FieldID),
		Name:   r.PostFormValue(model.FieldName),
		Breed:  r.PostFormValue(model.FieldBreed),
		Age:    r.PostFormValue(model.FieldAge),
		Weight: r.PostFormValue(model.FieldWeight),
	})
	if errors.Is(err, catsync.ErrEditClosed) {
		s.logger.DebugContext(r.Context(), "update_without_open_surface")
	}
	s.done(w, r)
}

func (s *Server) closeEdit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !s.parseForm(w, r, "editing") {
		return
	}
	reason := catsync.ParseCloseReason(r.PostFormValue("reason"))
	sess.Controller.CloseEdit(reason)
	s.done(w, r)
}

// confirmDelete renders the confirmation dialog for a row. Rows no longer
// in the table send the user back to a fresh list.
func (s *Server) confirmDelete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	id, ok := s.pathID(w, r, "deleting")
	if !ok {
		return
	}
	s.ensureLoaded(r)
	cat, ok := sess.Controller.Row(id)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, &confirmation{Cat: cat, Prompt: catsync.DeletePrompt})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	id, ok := s.pathID(w, r, "deleting")
	if !ok {
		return
	}
	if !s.parseForm(w, r, "deleting") {
		return
	}
	accepted := r.PostFormValue("confirm") == "yes"
	_ = sess.Controller.Delete(r.Context(), id, catsync.ConfirmerFunc(func(string) bool {
		return accepted
	}))
	s.done(w, r)
}

// done finishes a post. When the session has a table it is current, so
// the next render skips the list.
func (s *Server) done(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if sess.Controller.Loaded() {
		sess.MarkFresh()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request, action string) bool {
	if err := r.ParseForm(); err != nil {
		reason := "invalid form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			reason = "form too large"
		}
		sessionFrom(r).Alert(fmt.Sprintf("Error %s cat: %s", action, reason))
		s.logger.WarnContext(r.Context(), "form_parse_failed", "action", action, "error", err)
		s.done(w, r)
		return false
	}
	return true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, action string) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		sessionFrom(r).Alert(fmt.Sprintf("Error %s cat: invalid cat id %q", action, raw))
		s.done(w, r)
		return 0, false
	}
	return id, true
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, confirm *confirmation) {
	sess := sessionFrom(r)
	data := pageData{
		View:    sess.Controller.Snapshot(),
		Alerts:  sess.TakeAlerts(),
		Confirm: confirm,
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "render_failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
