package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/questionconnection/backend/internal/model"
)

// ErrUserNotFound is returned when no user row exists for an ID.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, nickname, profile_image_url, profile_image_change_dates,
	last_profile_image_update, notify_on_correct_answer, created_at, updated_at`

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// UpdateProfile creates or updates a user's nickname and notification setting.
// A nil notify leaves the stored setting unchanged.
func (r *Repository) UpdateProfile(ctx context.Context, id, nickname string, notify *bool, now time.Time) (*model.User, error) {
	query := `
		INSERT INTO users (id, nickname, notify_on_correct_answer, created_at, updated_at)
		VALUES ($1, $2, COALESCE($3, FALSE), $4, $4)
		ON CONFLICT (id) DO UPDATE SET
			nickname = EXCLUDED.nickname,
			notify_on_correct_answer = COALESCE($3, users.notify_on_correct_answer),
			updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, nickname, notify, now))
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// UpdateProfileImage stores a new profile image URL together with the
// change history that admitted it. The row is created if it does not exist.
//
// The write is unconditional: it does not check that the stored history is
// still the one the caller evaluated.
func (r *Repository) UpdateProfileImage(ctx context.Context, id, imageURL string, changeDates []string, now time.Time) error {
	query := `
		INSERT INTO users (id, profile_image_url, profile_image_change_dates, last_profile_image_update, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, $4)
		ON CONFLICT (id) DO UPDATE SET
			profile_image_url = EXCLUDED.profile_image_url,
			profile_image_change_dates = EXCLUDED.profile_image_change_dates,
			last_profile_image_update = EXCLUDED.last_profile_image_update,
			updated_at = EXCLUDED.updated_at
	`

	if changeDates == nil {
		changeDates = []string{}
	}

	_, err := r.pool.Exec(ctx, query, id, imageURL, pq.Array(changeDates), now)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var changeDates []string

	err := row.Scan(
		&user.ID,
		&user.Nickname,
		&user.ProfileImageURL,
		pq.Array(&changeDates),
		&user.LastProfileImageUpdate,
		&user.NotifyOnCorrectAnswer,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ProfileImageChangeDates = changeDates
	return &user, nil
}
