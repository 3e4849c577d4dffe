// Package compose is the create/edit post form. A form moves through
// editing, submitting and then success or failed; a failed submit lands
// back in editing with the entered text intact.
package compose

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"blogview/models"
)

type State int

const (
	Editing State = iota
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrLocked   = errors.New("compose: form is locked")
	ErrInvalid  = errors.New("compose: required fields missing")
	ErrNoAuthor = errors.New("compose: no author for new post")
)

// SuccessPath is where a finished form sends the user.
const SuccessPath = "/my-blogs"

type Fields struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required"`
	Image       string `form:"image" validate:"required"`
}

type Backend interface {
	CreatePost(ctx context.Context, in models.PostInput) (models.Post, error)
	UpdatePost(ctx context.Context, postID string, in models.PostInput) (models.Post, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

type Form struct {
	mu       sync.Mutex
	postID   string
	fields   Fields
	state    State
	errs     map[string]string
	notice   string
	saved    models.Post
	observer func(from, to State)
}

func New() *Form {
	return &Form{errs: map[string]string{}}
}

// Edit preloads a form for an existing post; submitting it updates instead
// of creating.
func Edit(p models.Post) *Form {
	return &Form{
		postID: p.ID,
		fields: Fields{Title: p.Title, Description: p.Description, Image: p.Image},
		errs:   map[string]string{},
	}
}

// Observe registers fn to be called on every state change. fn runs with the
// form locked and must not call back into it.
func (f *Form) Observe(fn func(from, to State)) {
	f.mu.Lock()
	f.observer = fn
	f.mu.Unlock()
}

func (f *Form) transition(to State) {
	from := f.state
	f.state = to
	if f.observer != nil && from != to {
		f.observer(from, to)
	}
}

func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case Submitting, Success:
		return ErrLocked
	case Failed:
		f.transition(Editing)
	}

	switch field {
	case "title":
		f.fields.Title = value
	case "description":
		f.fields.Description = value
	case "image":
		f.fields.Image = value
	default:
		return fmt.Errorf("compose: unknown field %q", field)
	}
	delete(f.errs, field)
	return nil
}

func (f *Form) SetFields(in Fields) error {
	for name, v := range map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"image":       in.Image,
	} {
		if err := f.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Notice is the last submit failure, empty after a success.
func (f *Form) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

func (f *Form) Saved() models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved
}

func (f *Form) IsUpdate() bool { return f.postID != "" }

func (f *Form) PostID() string { return f.postID }

func (f *Form) Redirect() string {
	if f.State() == Success {
		return SuccessPath
	}
	return ""
}

// Submit validates and sends the form. Missing fields fail with ErrInvalid
// and no request is made.
func (f *Form) Submit(ctx context.Context, backend Backend, userID string) error {
	f.mu.Lock()
	if f.state == Submitting || f.state == Success {
		f.mu.Unlock()
		return ErrLocked
	}
	if f.state == Failed {
		f.transition(Editing)
	}

	if errs := check(f.fields); len(errs) > 0 {
		f.errs = errs
		f.mu.Unlock()
		return ErrInvalid
	}
	if f.postID == "" && userID == "" {
		f.mu.Unlock()
		return ErrNoAuthor
	}

	f.errs = map[string]string{}
	f.transition(Submitting)
	in := models.PostInput{
		Title:       strings.TrimSpace(f.fields.Title),
		Description: f.fields.Description,
		Image:       strings.TrimSpace(f.fields.Image),
	}
	postID := f.postID
	f.mu.Unlock()

	var (
		saved models.Post
		err   error
	)
	if postID == "" {
		in.User = userID
		saved, err = backend.CreatePost(ctx, in)
	} else {
		saved, err = backend.UpdatePost(ctx, postID, in)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		if postID == "" {
			f.notice = "Failed to create blog"
		} else {
			f.notice = "Failed to update blog"
		}
		f.transition(Failed)
		f.transition(Editing)
		return err
	}
	f.saved = saved
	f.notice = ""
	f.transition(Success)
	return nil
}

func check(fields Fields) map[string]string {
	errs := map[string]string{}
	trimmed := Fields{
		Title:       strings.TrimSpace(fields.Title),
		Description: strings.TrimSpace(fields.Description),
		Image:       strings.TrimSpace(fields.Image),
	}
	err := validate.Struct(trimmed)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			errs[fe.Field()] = "This field is required"
		}
		return errs
	}
	errs["form"] = err.Error()
	return errs
}
