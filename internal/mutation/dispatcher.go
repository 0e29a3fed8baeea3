// Package mutation funnels every collection write through one dispatcher so
// the refresh signal is published in exactly one place: after the backend
// confirms the write, never before, and never on failure.
package mutation

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/scholarsync/scholarsync/internal/domain"
	"github.com/scholarsync/scholarsync/internal/observability"
	"github.com/scholarsync/scholarsync/internal/refresh"
)

// Backend is the slice of the API client the dispatcher writes through.
type Backend interface {
	SavePaper(ctx context.Context, paper domain.Paper, readingListID *int64) error
	DeletePaper(ctx context.Context, id string) error
	CreateReadingList(ctx context.Context, name, description string) (domain.ReadingList, error)
	DeleteReadingList(ctx context.Context, id int64) error
}

// Dispatcher executes collection mutations and publishes a refresh signal on
// confirmed success. Errors return to the caller for scoped display; every
// failed mutation is retryable by re-invoking it.
type Dispatcher struct {
	backend Backend
	bus     *refresh.Bus
	logger  zerolog.Logger
}

// NewDispatcher creates a dispatcher writing through backend and signaling
// on bus.
func NewDispatcher(backend Backend, bus *refresh.Bus, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		backend: backend,
		bus:     bus,
		logger:  logger.With().Str("component", "mutation").Logger(),
	}
}

// SavePaper saves a paper, optionally into a reading list, and publishes a
// refresh signal once the backend confirms.
func (d *Dispatcher) SavePaper(ctx context.Context, paper domain.Paper, readingListID *int64) error {
	if err := d.backend.SavePaper(ctx, paper, readingListID); err != nil {
		return err
	}

	logger := observability.WithPaperContext(d.logger, paper.ID)
	logger.Info().Msg("paper saved")
	d.bus.Publish()
	return nil
}

// DeletePaper removes a saved paper. Deleting a paper that is already gone
// counts as success: membership may have changed server-side, so the refresh
// signal still fires.
func (d *Dispatcher) DeletePaper(ctx context.Context, id string) error {
	err := d.backend.DeletePaper(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	logger := observability.WithPaperContext(d.logger, id)
	if err != nil {
		logger.Debug().Msg("paper already deleted")
	} else {
		logger.Info().Msg("paper deleted")
	}

	d.bus.Publish()
	return nil
}

// CreateList creates a reading list, returning the created entity, and
// publishes a refresh signal.
func (d *Dispatcher) CreateList(ctx context.Context, name, description string) (domain.ReadingList, error) {
	list, err := d.backend.CreateReadingList(ctx, name, description)
	if err != nil {
		return domain.ReadingList{}, err
	}

	logger := observability.WithListContext(d.logger, list.ID)
	logger.Info().Str("name", list.Name).Msg("reading list created")
	d.bus.Publish()
	return list, nil
}

// DeleteList deletes a reading list. As with papers, a missing list is a
// benign success and still publishes.
func (d *Dispatcher) DeleteList(ctx context.Context, id int64) error {
	err := d.backend.DeleteReadingList(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	logger := observability.WithListContext(d.logger, id)
	if err != nil {
		logger.Debug().Msg("reading list already deleted")
	} else {
		logger.Info().Msg("reading list deleted")
	}

	d.bus.Publish()
	return nil
}
