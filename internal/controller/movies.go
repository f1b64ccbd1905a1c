package controller

import (
	"context"
	"errors"

	"github.com/iliyamo/bookmyshow/internal/repository"
	"github.com/iliyamo/bookmyshow/internal/session"
)

// BookShow captures a movie and one of its shows and opens seat selection.
func (c *Controller) BookShow(ctx context.Context, s *session.Session, movieID, showID uint64) (*session.Session, View, error) {
	next := s.Clone()
	if next.Page != session.PageMovies {
		return c.fail(ctx, s, next, sessionError(session.ErrTransitionNotAllowed))
	}

	movie, err := c.Movies.GetByID(ctx, movieID)
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.fail(ctx, s, next, newError(KindNotFound, "Movie not found.", err))
	case err != nil:
		return c.storageFail(s, err)
	}
	show, err := c.Shows.GetByID(ctx, showID)
	switch {
	case errors.Is(err, repository.ErrShowNotFound):
		return c.fail(ctx, s, next, newError(KindNotFound, "Show not found.", err))
	case err != nil:
		return c.storageFail(s, err)
	}
	if show.MovieID != movie.ID {
		return c.fail(ctx, s, next, newError(KindNotFound, "Show not found for this movie.", repository.ErrShowNotFound))
	}

	next.ClearSelection()
	next.Movie = &movie
	next.Show = &show
	if err := next.Fire(session.EventBookShow); err != nil {
		return c.fail(ctx, s, s.Clone(), sessionError(err))
	}
	return c.land(ctx, s, next)
}

// ViewHistory opens the booking history page.
func (c *Controller) ViewHistory(ctx context.Context, s *session.Session) (*session.Session, View, error) {
	return c.move(ctx, s, session.EventViewHistory)
}

// BackToMovies leaves the booking history page.
func (c *Controller) BackToMovies(ctx context.Context, s *session.Session) (*session.Session, View, error) {
	return c.move(ctx, s, session.EventBackToMovies)
}

// move fires ev and renders the resulting page.
func (c *Controller) move(ctx context.Context, s *session.Session, ev session.Event) (*session.Session, View, error) {
	next := s.Clone()
	if err := next.Fire(ev); err != nil {
		return c.fail(ctx, s, next, sessionError(err))
	}
	return c.land(ctx, s, next)
}
