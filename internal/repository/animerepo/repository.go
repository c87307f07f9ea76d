package animerepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"animeapi/internal/domain"
	"animeapi/internal/pkg/cache"
	"animeapi/internal/pkg/logger"
)

const (
	animeCacheKey = "anime:%d"
	listCacheKey  = "anime:all"
)

// AnimeRepository is the store adapter for anime records: PostgreSQL as the
// system of record with a cache-aside Redis layer for reads. It is the only
// writer of record ids. Delete does not distinguish missing rows; the
// service layer produces not-found semantics with an explicit lookup.
type AnimeRepository struct {
	db        *sql.DB
	cache     cache.Client
	dbTimeout time.Duration
	cacheTTL  time.Duration
	log       logger.Logger
}

// NewAnimeRepository wires the repository to its infrastructure.
func NewAnimeRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *AnimeRepository {
	return &AnimeRepository{
		db:        db,
		cache:     cacheClient,
		dbTimeout: dbTimeout,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// FindAll returns every anime in insertion order.
func (r *AnimeRepository) FindAll(ctx context.Context) ([]domain.Anime, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	if cached, err := r.cache.Get(ctxTimeout, listCacheKey); err == nil {
		var list []domain.Anime
		if err := json.Unmarshal([]byte(cached), &list); err == nil {
			return list, nil
		}
	} else if err != cache.ErrCacheMiss {
		r.log.Warn("cache read failed, falling back to database", map[string]interface{}{"key": listCacheKey, "error": err.Error()})
	}

	rows, err := r.db.QueryContext(ctxTimeout, `SELECT id, name FROM anime ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query anime: %w", err)
	}
	defer rows.Close()

	list := []domain.Anime{}
	for rows.Next() {
		var a domain.Anime
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan anime: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate anime: %w", err)
	}

	r.cacheSet(ctxTimeout, listCacheKey, list)
	return list, nil
}

// FindByID returns the anime with the given id, or domain.ErrNotFound when
// no such record exists.
func (r *AnimeRepository) FindByID(ctx context.Context, id int) (domain.Anime, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	key := fmt.Sprintf(animeCacheKey, id)
	if cached, err := r.cache.Get(ctxTimeout, key); err == nil {
		var a domain.Anime
		if err := json.Unmarshal([]byte(cached), &a); err == nil {
			return a, nil
		}
	} else if err != cache.ErrCacheMiss {
		r.log.Warn("cache read failed, falling back to database", map[string]interface{}{"key": key, "error": err.Error()})
	}

	var a domain.Anime
	err := r.db.QueryRowContext(ctxTimeout, `SELECT id, name FROM anime WHERE id = $1`, id).
		Scan(&a.ID, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Anime{}, fmt.Errorf("anime %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Anime{}, fmt.Errorf("query anime %d: %w", id, err)
	}

	r.cacheSet(ctxTimeout, key, a)
	return a, nil
}

// Save inserts the record when its id is zero, assigning a new id, and
// updates it otherwise.
func (r *AnimeRepository) Save(ctx context.Context, anime domain.Anime) (domain.Anime, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	if anime.ID == 0 {
		err := r.db.QueryRowContext(ctxTimeout, `INSERT INTO anime (name) VALUES ($1) RETURNING id`, anime.Name).
			Scan(&anime.ID)
		if err != nil {
			return domain.Anime{}, fmt.Errorf("insert anime: %w", err)
		}
	} else {
		if _, err := r.db.ExecContext(ctxTimeout, `UPDATE anime SET name = $2 WHERE id = $1`, anime.ID, anime.Name); err != nil {
			return domain.Anime{}, fmt.Errorf("update anime %d: %w", anime.ID, err)
		}
	}

	r.invalidate(ctxTimeout, anime.ID)
	return anime, nil
}

// SaveMany inserts all records inside one transaction and returns them with
// their assigned ids. Either every record is written or none is.
func (r *AnimeRepository) SaveMany(ctx context.Context, animes []domain.Anime) ([]domain.Anime, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctxTimeout, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback() // rollback is a no-op after commit

	saved := make([]domain.Anime, 0, len(animes))
	for _, a := range animes {
		if err := tx.QueryRowContext(ctxTimeout, `INSERT INTO anime (name) VALUES ($1) RETURNING id`, a.Name).
			Scan(&a.ID); err != nil {
			return nil, fmt.Errorf("insert anime batch: %w", err)
		}
		saved = append(saved, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch insert: %w", err)
	}

	r.invalidateList(ctxTimeout)
	return saved, nil
}

// Delete removes the record with the given id. Deleting a missing id is not
// an error.
func (r *AnimeRepository) Delete(ctx context.Context, id int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctxTimeout, `DELETE FROM anime WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete anime %d: %w", id, err)
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

// cacheSet stores a value in the cache; failures only degrade performance,
// so they are logged and swallowed.
func (r *AnimeRepository) cacheSet(ctx context.Context, key string, value interface{}) {
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, string(b), r.cacheTTL); err != nil {
		r.log.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (r *AnimeRepository) invalidate(ctx context.Context, id int) {
	if err := r.cache.Delete(ctx, fmt.Sprintf(animeCacheKey, id), listCacheKey); err != nil {
		r.log.Warn("cache invalidation failed", map[string]interface{}{"id": id, "error": err.Error()})
	}
}

func (r *AnimeRepository) invalidateList(ctx context.Context) {
	if err := r.cache.Delete(ctx, listCacheKey); err != nil {
		r.log.Warn("cache invalidation failed", map[string]interface{}{"key": listCacheKey, "error": err.Error()})
	}
}
