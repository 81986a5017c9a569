package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type errorLogRepository struct {
	db DB
}

func NewErrorLogRepository(db DB) interfaces.ErrorLogRepository {
	return &errorLogRepository{db: db}
}

func (r *errorLogRepository) Record(ctx context.Context, entry domain.ErrorLogEntry) error {
	query := `
		INSERT INTO error_logs (user_id, message, step, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, entry.UserID, entry.Message, string(entry.Step), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record error: %w", err)
	}
	return nil
}
