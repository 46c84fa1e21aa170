package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
)

const recentSessionsLimit = 10

// AdminRepository runs the aggregate queries behind the admin dashboard
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		pool: pool,
	}
}

// GetStats fetches platform-wide counts and the most recent sessions
func (r *AdminRepository) GetStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{
		SessionsByStatus:  map[string]int64{},
		RevenueByCurrency: map[string]int64{},
	}

	userQuery := `SELECT role, count(*) FROM users WHERE is_active GROUP BY role`

	rows, err := r.pool.Query(ctx, userQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	for rows.Next() {
		var role models.Role
		var count int64
		if err := rows.Scan(&role, &count); err != nil {
			rows.Close()
			return nil, err
		}
		switch role {
		case models.RoleStudent:
			stats.TotalStudents = count
		case models.RoleMentor:
			stats.TotalMentors = count
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessionQuery := `SELECT status, count(*) FROM sessions GROUP BY status`

	rows, err = r.pool.Query(ctx, sessionQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.SessionsByStatus[status] = count
		stats.TotalSessions += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	paymentQuery := `
		SELECT currency, count(*), COALESCE(sum(amount), 0)
		FROM payments
		WHERE status = 'completed'
		GROUP BY currency
	`

	rows, err = r.pool.Query(ctx, paymentQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}
	for rows.Next() {
		var currency string
		var count, total int64
		if err := rows.Scan(&currency, &count, &total); err != nil {
			rows.Close()
			return nil, err
		}
		stats.CompletedPayments += count
		stats.RevenueByCurrency[currency] = total
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recentQuery := `
		SELECT id, student_id, mentor_id, topic, description, scheduled_at, status, created_at, updated_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err = r.pool.Query(ctx, recentQuery, recentSessionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sessions: %w", err)
	}

	sessions, err := models.ScanSessions(rows)
	if err != nil {
		return nil, err
	}
	stats.RecentSessions = sessions

	return stats, nil
}
