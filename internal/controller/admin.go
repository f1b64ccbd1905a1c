package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/bookmyshow/internal/logging"
	"github.com/iliyamo/bookmyshow/internal/model"
	"github.com/iliyamo/bookmyshow/internal/session"
)

// MovieForm is the admin "add a new movie" form.
type MovieForm struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Seats       int    `json:"seats_available" validate:"gt=0"`
}

// ShowForm is the admin "add show timings and pricing" form.  MovieID is
// not checked against the movies table.
type ShowForm struct {
	MovieID  uint64  `json:"movie_id" validate:"gt=0"`
	ShowTime string  `json:"show_time" validate:"required,max=32"`
	Price    float64 `json:"price" validate:"gt=0"`
}

// AddMovie creates a movie.  The admin stays on the dashboard.
func (c *Controller) AddMovie(ctx context.Context, s *session.Session, in MovieForm) (*session.Session, View, error) {
	next, cerr := c.adminDraft(s)
	if cerr != nil {
		return c.fail(ctx, s, next, cerr)
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := c.validate.Struct(in); err != nil {
		return c.fail(ctx, s, next, newError(KindValidation, formMessage(err), err))
	}

	id, err := c.Movies.Create(ctx, in.Name, in.Description, in.Seats)
	if err != nil {
		return c.storageFail(s, err)
	}
	logging.Ctx(ctx).Info().Uint64("movie_id", id).Str("name", in.Name).Msg("movie added")
	return c.adminDone(ctx, s, next, "Movie added successfully!")
}

// AddShow creates a show for in.MovieID.  The admin stays on the dashboard.
func (c *Controller) AddShow(ctx context.Context, s *session.Session, in ShowForm) (*session.Session, View, error) {
	next, cerr := c.adminDraft(s)
	if cerr != nil {
		return c.fail(ctx, s, next, cerr)
	}
	in.ShowTime = strings.TrimSpace(in.ShowTime)
	if err := c.validate.Struct(in); err != nil {
		return c.fail(ctx, s, next, newError(KindValidation, formMessage(err), err))
	}

	id, err := c.Shows.Create(ctx, in.MovieID, in.ShowTime, in.Price)
	if err != nil {
		return c.storageFail(s, err)
	}
	logging.Ctx(ctx).Info().Uint64("show_id", id).Uint64("movie_id", in.MovieID).Msg("show added")
	return c.adminDone(ctx, s, next, "Show added successfully!")
}

func (c *Controller) adminDraft(s *session.Session) (*session.Session, *Error) {
	next := s.Clone()
	if next.User == nil {
		return next, sessionError(session.ErrNotAuthenticated)
	}
	if next.User.Role != model.RoleAdmin {
		return next, sessionError(session.ErrForbidden)
	}
	if next.Page != session.PageAdmin {
		return next, sessionError(session.ErrTransitionNotAllowed)
	}
	return next, nil
}

func (c *Controller) adminDone(ctx context.Context, orig, next *session.Session, msg string) (*session.Session, View, error) {
	if err := next.Fire(session.EventAdminAction); err != nil {
		return c.fail(ctx, orig, orig.Clone(), sessionError(err))
	}
	v, err := c.view(ctx, next)
	if err != nil {
		return c.storageFail(orig, err)
	}
	v.Message = msg
	return next, v, nil
}

// formMessage turns validator errors into one line for the visitor.
func formMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid form."
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "maxbytes":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
