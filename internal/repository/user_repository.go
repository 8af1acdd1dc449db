package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/goodhive/onboarding-service/internal/domain"
)

// UserRepository defines persistence access for platform identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, userID string) (*domain.User, error)
	UpdateStatuses(ctx context.Context, userID string, statuses map[domain.Role]domain.ApprovalStatus) error
}

type userRepository struct {
	db DBTX
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `user_id, email, wallet_address, talent_status, mentor_status, recruiter_status, created_at, updated_at`

var statusColumns = map[domain.Role]string{
	domain.RoleTalent:    "talent_status",
	domain.RoleMentor:    "mentor_status",
	domain.RoleRecruiter: "recruiter_status",
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, wallet_address, talent_status, mentor_status, recruiter_status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING user_id, created_at, updated_at`

	for _, st := range []*domain.ApprovalStatus{&user.TalentStatus, &user.MentorStatus, &user.RecruiterStatus} {
		if *st == "" {
			*st = domain.StatusPending
		}
	}

	return r.db.QueryRow(ctx, query,
		user.Email,
		user.WalletAddress,
		user.TalentStatus,
		user.MentorStatus,
		user.RecruiterStatus,
	).Scan(&user.UserID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1`, userID)
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *userRepository) GetByIDForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1 FOR UPDATE`, userID)
}

func (r *userRepository) get(ctx context.Context, query, userID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Email,
		&user.WalletAddress,
		&user.TalentStatus,
		&user.MentorStatus,
		&user.RecruiterStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateStatuses writes only the roles present in statuses. An empty map
// still touches updated_at so a missing user is reported.
func (r *userRepository) UpdateStatuses(ctx context.Context, userID string, statuses map[domain.Role]domain.ApprovalStatus) error {
	sets := []string{"updated_at=NOW()"}
	args := []any{}

	for _, role := range domain.TalentRoles {
		status, ok := statuses[role]
		if !ok {
			continue
		}
		args = append(args, status)
		sets = append(sets, fmt.Sprintf("%s=$%d", statusColumns[role], len(args)))
	}

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
