package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sslv_watcher/models"
)

// PostgresStore holds the domain data: search criteria, found listings
// and push subscriptions.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// =============================================================================
// Search criteria
// =============================================================================

func (s *PostgresStore) FindActiveCriteria(ctx context.Context) ([]models.SearchCriteria, error) {
	query := `
		SELECT id, user_id, region, district, category, min_price, max_price,
			min_rooms, max_rooms, min_area, max_area, is_active, created_at, last_checked
		FROM search_criteria
		WHERE is_active = TRUE
		ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var criteria []models.SearchCriteria
	for rows.Next() {
		var c models.SearchCriteria
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Region, &c.District, &c.Category, &c.MinPrice, &c.MaxPrice,
			&c.MinRooms, &c.MaxRooms, &c.MinArea, &c.MaxArea, &c.IsActive, &c.CreatedAt, &c.LastChecked,
		); err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, rows.Err()
}

func (s *PostgresStore) UpdateLastChecked(ctx context.Context, criteriaID int64, t time.Time) error {
	query := `UPDATE search_criteria SET last_checked = $2 WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, criteriaID, t)
	return err
}

// =============================================================================
// Found listings
// =============================================================================

// InsertListingIfNew inserts a listing keyed by its source URL. A
// conflict on the unique URL means the listing is already known; that
// is the steady-state dedup path and reports (false, nil).
func (s *PostgresStore) InsertListingIfNew(ctx context.Context, l *models.FoundListing) (bool, error) {
	query := `
		INSERT INTO found_listings (
			criteria_id, source_url, title, price, rooms, area, district,
			description, image_url, found_at, notified, is_favorite
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, FALSE)
		ON CONFLICT (source_url) DO NOTHING
		RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		l.CriteriaID, l.SourceURL, l.Title, l.Price, l.Rooms, l.Area, l.District,
		l.Description, l.ImageURL, l.FoundAt,
	).Scan(&l.ID)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostgresStore) MarkNotified(ctx context.Context, listingIDs []int64) error {
	if len(listingIDs) == 0 {
		return nil
	}
	query := `UPDATE found_listings SET notified = TRUE WHERE id = ANY($1)`
	_, err := s.pool.Exec(ctx, query, listingIDs)
	return err
}

// DeleteOldListings removes listings past the retention window unless
// the user favorited them. Returns the number removed.
func (s *PostgresStore) DeleteOldListings(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `DELETE FROM found_listings WHERE found_at < $1 AND is_favorite = FALSE`
	tag, err := s.pool.Exec(ctx, query, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// =============================================================================
// Push subscriptions
// =============================================================================

func (s *PostgresStore) FindPushSubscription(ctx context.Context, userID string) (*models.PushSubscription, error) {
	query := `SELECT user_id, subscription, created_at FROM push_subscriptions WHERE user_id = $1`

	var sub models.PushSubscription
	err := s.pool.QueryRow(ctx, query, userID).Scan(&sub.UserID, &sub.Subscription, &sub.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *PostgresStore) DeletePushSubscription(ctx context.Context, userID string) error {
	query := `DELETE FROM push_subscriptions WHERE user_id = $1`
	_, err := s.pool.Exec(ctx, query, userID)
	return err
}
