package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type errorLogRepository struct {
	db *sql.DB
}

func NewErrorLogRepository(s *Store) interfaces.ErrorLogRepository {
	return &errorLogRepository{db: s.db}
}

func (r *errorLogRepository) Record(ctx context.Context, entry domain.ErrorLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO error_logs (user_id, message, step, created_at) VALUES (?, ?, ?, ?)`,
		entry.UserID, entry.Message, string(entry.Step), formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record error: %w", err)
	}
	return nil
}
