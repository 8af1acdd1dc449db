package repository

import (
	"context"

	"github.com/goodhive/onboarding-service/internal/domain"
)

// ModerationHistoryRepository stores audit entries.
type ModerationHistoryRepository interface {
	Create(ctx context.Context, entry *domain.ModerationEntry) error
	ListByUser(ctx context.Context, userID string) ([]domain.ModerationEntry, error)
}

type moderationHistoryRepository struct {
	db DBTX
}

// NewModerationHistoryRepository builds repository.
func NewModerationHistoryRepository(db DBTX) ModerationHistoryRepository {
	return &moderationHistoryRepository{db: db}
}

func (r *moderationHistoryRepository) Create(ctx context.Context, entry *domain.ModerationEntry) error {
	const query = `
        INSERT INTO moderation_history (user_id, kind, transition, actor_type, actor_id, before, after)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	before, after := entry.Before, entry.After
	if before == nil {
		before = map[domain.Role]domain.ApprovalStatus{}
	}
	if after == nil {
		after = map[domain.Role]domain.ApprovalStatus{}
	}
	return r.db.QueryRow(ctx, query,
		entry.UserID,
		entry.Kind,
		entry.Transition,
		string(entry.ActorType),
		entry.ActorID,
		before,
		after,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *moderationHistoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.ModerationEntry, error) {
	const query = `
        SELECT id, user_id, kind, transition, actor_type, actor_id, before, after, created_at
        FROM moderation_history WHERE user_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ModerationEntry{}
	for rows.Next() {
		var entry domain.ModerationEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Kind,
			&entry.Transition,
			&entry.ActorType,
			&entry.ActorID,
			&entry.Before,
			&entry.After,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
