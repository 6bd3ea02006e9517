package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fomo-app/fomo/internal/entities"
)

type statsDTO struct {
	UserID          string `db:"user_id"`
	HostedParties   int    `db:"hosted_parties"`
	AttendedParties int    `db:"attended_parties"`
	FriendCount     int    `db:"friend_count"`
}

// AddStats increments hosted counter of every host and attended counter of every attendant.
func (s pg) AddStats(ctx context.Context, hosted []string, attended []string) error {
	for _, v := range stringsUnique(hosted) {
		if _, err := s.ext.ExecContext(ctx, `
			INSERT INTO user_stats(user_id, hosted_parties) VALUES($1, 1)
			ON CONFLICT(user_id) DO UPDATE SET hosted_parties = user_stats.hosted_parties + 1
		`, v); err != nil {
			return fmt.Errorf("failed to exec: %w", err)
		}
	}

	for _, v := range stringsUnique(attended) {
		if _, err := s.ext.ExecContext(ctx, `
			INSERT INTO user_stats(user_id, attended_parties) VALUES($1, 1)
			ON CONFLICT(user_id) DO UPDATE SET attended_parties = user_stats.attended_parties + 1
		`, v); err != nil {
			return fmt.Errorf("failed to exec: %w", err)
		}
	}

	return nil
}

// GetStats returns statistics of requested users. Unknown users are omitted.
// All known statistics are returned when no id is passed.
func (s pg) GetStats(ctx context.Context, id ...string) (map[string]entities.UserStats, error) {
	var (
		dto   []*statsDTO
		query = `SELECT user_id, hosted_parties, attended_parties, friend_count FROM user_stats`
		args  []interface{}
	)

	if len(id) > 0 {
		q, a, err := sqlx.In(query+` WHERE user_id IN (?)`, stringsUnique(id))
		if err != nil {
			return nil, fmt.Errorf("failed to construct IN clause: %w", err)
		}
		query, args = s.ext.Rebind(q), a
	}

	if err := sqlx.SelectContext(ctx, s.ext, &dto, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make(map[string]entities.UserStats, len(dto))
	for _, v := range dto {
		out[v.UserID] = entities.UserStats{
			HostedParties:   v.HostedParties,
			AttendedParties: v.AttendedParties,
			FriendCount:     v.FriendCount,
		}
	}

	return out, nil
}
