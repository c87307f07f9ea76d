package animeservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"animeapi/internal/domain"
	apperror "animeapi/internal/errors"
	"animeapi/internal/pkg/logger"
)

// compensationTimeout bounds the detached cleanup of a failed batch save.
const compensationTimeout = 30 * time.Second

// AnimeRepository is the store contract this service depends on. Every call
// is attempted exactly once; retry policy, if any, belongs to the store.
type AnimeRepository interface {
	FindAll(ctx context.Context) ([]domain.Anime, error)
	FindByID(ctx context.Context, id int) (domain.Anime, error)
	Save(ctx context.Context, anime domain.Anime) (domain.Anime, error)
	SaveMany(ctx context.Context, animes []domain.Anime) ([]domain.Anime, error)
	Delete(ctx context.Context, id int) error
}

// Service orchestrates store calls for the anime resource. It enforces
// not-found semantics, validates names before and after store writes, and
// compensates partially committed batches.
type Service struct {
	repo AnimeRepository
	log  logger.Logger
}

// NewService creates the anime service.
func NewService(repo AnimeRepository, log logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// FindAll passes the store's full scan through unchanged.
func (s *Service) FindAll(ctx context.Context) ([]domain.Anime, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.NewInternalError("failed to list anime", err)
	}
	return list, nil
}

// FindByID looks the record up in the store. A store miss is a terminal
// not-found failure, never an empty success value.
func (s *Service) FindByID(ctx context.Context, id int) (domain.Anime, error) {
	anime, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Anime{}, apperror.NewNotFoundError(fmt.Sprintf("anime %d not found", id))
		}
		return domain.Anime{}, apperror.NewInternalError("failed to find anime", err)
	}
	return anime, nil
}

// Save validates the candidate and delegates to the store, returning the
// stored record with its assigned id. An empty name is rejected before the
// store is touched.
func (s *Service) Save(ctx context.Context, candidate domain.Anime) (domain.Anime, error) {
	if candidate.Name == "" {
		return domain.Anime{}, apperror.NewValidationError("anime name cannot be empty")
	}

	saved, err := s.repo.Save(ctx, candidate)
	if err != nil {
		return domain.Anime{}, apperror.NewInternalError("failed to save anime", err)
	}
	return saved, nil
}

// SaveAll persists a batch all-or-nothing from the caller's point of view:
//
//  1. every candidate is validated up front; one bad name fails the whole
//     batch before any store call;
//  2. the batch goes to the store in a single call;
//  3. every *returned* record is validated again, because the store is the
//     authority on the final record and may have admitted bad data;
//  4. if the post-save check fails, every record saved in this batch is
//     deleted best-effort and the original validation error is surfaced.
func (s *Service) SaveAll(ctx context.Context, candidates []domain.Anime) ([]domain.Anime, error) {
	for _, c := range candidates {
		if c.Name == "" {
			return nil, apperror.NewValidationError("anime name cannot be empty")
		}
	}

	saved, err := s.repo.SaveMany(ctx, candidates)
	if err != nil {
		return nil, apperror.NewInternalError("failed to save anime batch", err)
	}

	for _, a := range saved {
		if a.Name == "" {
			s.compensate(saved)
			return nil, apperror.NewValidationError("store returned an anime with an empty name")
		}
	}

	return saved, nil
}

// compensate deletes every record saved by a failed batch. It runs detached
// so the response never waits on it, and delete failures are logged but
// never surfaced: the validation error already on its way to the caller
// must not be masked.
func (s *Service) compensate(saved []domain.Anime) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
		defer cancel()

		for _, a := range saved {
			if err := s.repo.Delete(ctx, a.ID); err != nil {
				s.log.Warn("compensating delete failed", map[string]interface{}{
					"anime_id": a.ID,
					"error":    err.Error(),
				})
			}
		}
	}()
}

// Update validates the candidate, checks the record exists and saves the
// candidate under the given id. The existence check is what turns the
// store's indifferent save-by-id into a meaningful not-found failure.
func (s *Service) Update(ctx context.Context, id int, candidate domain.Anime) error {
	if candidate.Name == "" {
		return apperror.NewValidationError("anime name cannot be empty")
	}

	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	candidate.ID = id
	if _, err := s.repo.Save(ctx, candidate); err != nil {
		return apperror.NewInternalError("failed to update anime", err)
	}
	return nil
}

// Delete checks the record exists, then removes it. As with Update, the
// store's delete alone cannot distinguish "gone" from "never existed".
func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.NewInternalError("failed to delete anime", err)
	}
	return nil
}
