package repositories

import (
	"context"
	"errors"

	"cvforge/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository reads user accounts. Tier state is mutated exclusively by
// the payment-confirmation workflow, never here.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepo struct {
	db Querier
}

func NewUserRepository(db Querier) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, full_name, active_tier, tier_activation_date,
		has_recruiter_subscription, reseller_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var tier *string
	err := row.Scan(
		&user.ID, &user.Email, &user.FullName, &tier,
		&user.TierActivationDate, &user.HasRecruiterSubscription,
		&user.ResellerID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// A NULL tier behaves exactly like "none".
	if tier != nil {
		user.ActiveTier = models.ParseTier(*tier)
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
