package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"gradecanvas/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func (s *Store) GetUserSettings(ctx context.Context, userID string) (model.UserSettings, error) {
	var settings model.UserSettings
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, canvas_url, canvas_token, token_label, sync_enabled, notify_on_grade, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`, userID)
	err := row.Scan(
		&settings.UserID,
		&settings.CanvasURL,
		&settings.CanvasToken,
		&settings.TokenLabel,
		&settings.SyncEnabled,
		&settings.NotifyOnGrade,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	return settings, err
}

func (s *Store) UpsertUserSettings(ctx context.Context, settings model.UserSettings) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_settings (user_id, canvas_url, canvas_token, token_label, sync_enabled, notify_on_grade, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			canvas_url = EXCLUDED.canvas_url,
			canvas_token = EXCLUDED.canvas_token,
			token_label = EXCLUDED.token_label,
			sync_enabled = EXCLUDED.sync_enabled,
			notify_on_grade = EXCLUDED.notify_on_grade,
			updated_at = EXCLUDED.updated_at
	`, settings.UserID, settings.CanvasURL, settings.CanvasToken, settings.TokenLabel, settings.SyncEnabled, settings.NotifyOnGrade, now)
	return err
}

func (s *Store) ListSyncEnabledSettings(ctx context.Context) ([]model.UserSettings, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, canvas_url, canvas_token, token_label, sync_enabled, notify_on_grade, created_at, updated_at
		FROM user_settings
		WHERE sync_enabled = true AND canvas_url IS NOT NULL AND canvas_token IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.UserSettings
	for rows.Next() {
		var row model.UserSettings
		if err := rows.Scan(
			&row.UserID,
			&row.CanvasURL,
			&row.CanvasToken,
			&row.TokenLabel,
			&row.SyncEnabled,
			&row.NotifyOnGrade,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		settings = append(settings, row)
	}
	return settings, rows.Err()
}

func (s *Store) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var profile model.Profile
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, display_name, bio, avatar_url, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID)
	err := row.Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	return profile, err
}

func (s *Store) UpsertProfile(ctx context.Context, profile model.Profile) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, display_name, bio, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = EXCLUDED.updated_at
	`, profile.UserID, profile.DisplayName, profile.Bio, profile.AvatarURL, now)
	return err
}
