package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/goodhive/onboarding-service/internal/domain"
)

// TalentFilter narrows the public talent listing.
type TalentFilter struct {
	Role   *domain.Role
	Skill  *string
	Limit  int
	Offset int
}

// TalentRepository handles persistence for talent profiles.
type TalentRepository interface {
	Create(ctx context.Context, talent *domain.TalentProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.TalentProfile, error)
	GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.TalentProfile, error)
	SetModeration(ctx context.Context, userID string, approved, inReview bool, flags domain.ApprovalFlags) error
	ListPending(ctx context.Context, limit, offset int) ([]domain.TalentProfile, error)
	ListApproved(ctx context.Context, filter TalentFilter) ([]domain.TalentProfile, error)
}

type talentRepository struct {
	db DBTX
}

// NewTalentRepository instantiates the repository.
func NewTalentRepository(db DBTX) TalentRepository {
	return &talentRepository{db: db}
}

const talentColumns = `user_id, first_name, last_name, title, skills, approved, in_review, talent, mentor, recruiter, created_at, updated_at`

var capabilityColumns = map[domain.Role]string{
	domain.RoleTalent:    "talent",
	domain.RoleMentor:    "mentor",
	domain.RoleRecruiter: "recruiter",
}

func (r *talentRepository) Create(ctx context.Context, talent *domain.TalentProfile) error {
	const query = `
        INSERT INTO talents (user_id, first_name, last_name, title, skills, approved, in_review, talent, mentor, recruiter)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at, updated_at`

	skills := talent.Skills
	if skills == nil {
		skills = []string{}
	}
	return r.db.QueryRow(ctx, query,
		talent.UserID,
		talent.FirstName,
		talent.LastName,
		talent.Title,
		skills,
		talent.Approved,
		talent.InReview,
		talent.Talent,
		talent.Mentor,
		talent.Recruiter,
	).Scan(&talent.CreatedAt, &talent.UpdatedAt)
}

func (r *talentRepository) GetByUserID(ctx context.Context, userID string) (*domain.TalentProfile, error) {
	return scanTalent(r.db.QueryRow(ctx, `SELECT `+talentColumns+` FROM talents WHERE user_id=$1`, userID))
}

func (r *talentRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.TalentProfile, error) {
	return scanTalent(r.db.QueryRow(ctx, `SELECT `+talentColumns+` FROM talents WHERE user_id=$1 FOR UPDATE`, userID))
}

// SetModeration writes the moderation pair and overwrites every capability
// present in flags. Absent capabilities keep their stored value; this merges
// where the approval contract describes a plain overwrite, so an omitted flag
// never clears a capability granted earlier.
func (r *talentRepository) SetModeration(ctx context.Context, userID string, approved, inReview bool, flags domain.ApprovalFlags) error {
	args := []any{approved, inReview}
	sets := []string{"approved=$1", "in_review=$2", "updated_at=NOW()"}

	for _, role := range domain.TalentRoles {
		flag := flags.For(role)
		if flag == nil {
			continue
		}
		args = append(args, *flag)
		sets = append(sets, fmt.Sprintf("%s=$%d", capabilityColumns[role], len(args)))
	}

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE talents SET %s WHERE user_id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *talentRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.TalentProfile, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM talents WHERE in_review=TRUE ORDER BY updated_at ASC LIMIT %d OFFSET %d`,
		talentColumns, limit, offset)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTalents(rows)
}

func (r *talentRepository) ListApproved(ctx context.Context, filter TalentFilter) ([]domain.TalentProfile, error) {
	clauses := []string{"approved=TRUE"}
	args := []any{}

	if filter.Role != nil {
		col, ok := capabilityColumns[*filter.Role]
		if !ok {
			return nil, fmt.Errorf("unknown role %q", *filter.Role)
		}
		clauses = append(clauses, col+"=TRUE")
	}
	if filter.Skill != nil && strings.TrimSpace(*filter.Skill) != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Skill)))
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(skills) s WHERE LOWER(s) = $%d)", len(args)))
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM talents WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		talentColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTalents(rows)
}

func scanTalent(row pgx.Row) (*domain.TalentProfile, error) {
	var t domain.TalentProfile
	if err := row.Scan(
		&t.UserID,
		&t.FirstName,
		&t.LastName,
		&t.Title,
		&t.Skills,
		&t.Approved,
		&t.InReview,
		&t.Talent,
		&t.Mentor,
		&t.Recruiter,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTalents(rows pgx.Rows) ([]domain.TalentProfile, error) {
	result := []domain.TalentProfile{}
	for rows.Next() {
		t, err := scanTalent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
