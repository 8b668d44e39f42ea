package postgres

import (
	"context"
	"fmt"

	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/jackc/pgx/v5"
)

// StatusCounts returns audio count grouped by workflow status
func (db *DB) StatusCounts(ctx context.Context) ([]*persistence.StatusCount, error) {
	rows, err := db.pool.Query(ctx, `SELECT status, count(*) FROM audio GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("can't load status counts: %w", err)
	}
	defer rows.Close()
	var res []*persistence.StatusCount
	for rows.Next() {
		var sc persistence.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("can't scan status count: %w", err)
		}
		res = append(res, &sc)
	}
	return res, rows.Err()
}

// WorkRows returns one row per audio+transcription pair,
// newest verification first
func (db *DB) WorkRows(ctx context.Context) ([]*persistence.WorkRow, error) {
	rows, err := db.pool.Query(ctx, `SELECT a.id, a.filename, a.status, tu.username, cu.username,
	t.ctrl_correct, COALESCE(t.ctrl_unsuitable, false) OR t.trans_unsuitable,
	COALESCE(t.ctrl_date, t.trans_date)
	FROM transcriptions t
	JOIN audio a ON a.id = t.audio_id
	LEFT JOIN users tu ON tu.id = t.verified_by
	LEFT JOIN users cu ON cu.id = t.controlled_by
	ORDER BY COALESCE(t.ctrl_date, t.trans_date) DESC`)
	if err != nil {
		return nil, fmt.Errorf("can't load work report: %w", err)
	}
	defer rows.Close()
	var res []*persistence.WorkRow
	for rows.Next() {
		var wr persistence.WorkRow
		if err := rows.Scan(&wr.AudioID, &wr.Filename, &wr.Status, &wr.Transcriber, &wr.Controller,
			&wr.IsCorrect, &wr.IsUnsuitable, &wr.Date); err != nil {
			return nil, fmt.Errorf("can't scan work row: %w", err)
		}
		res = append(res, &wr)
	}
	return res, rows.Err()
}

const outcomeFilters = `count(t.id),
	count(*) FILTER (WHERE t.ctrl_correct IS TRUE),
	count(*) FILTER (WHERE t.ctrl_correct IS FALSE AND t.ctrl_unsuitable IS NOT TRUE AND NOT t.trans_unsuitable),
	count(*) FILTER (WHERE t.trans_unsuitable OR t.ctrl_unsuitable IS TRUE)`

// TranscriberStats returns per transcriber outcome totals
func (db *DB) TranscriberStats(ctx context.Context) ([]*persistence.UserTotals, error) {
	return db.userTotals(ctx, `SELECT u.id, u.username, `+outcomeFilters+`
	FROM users u JOIN transcriptions t ON t.verified_by = u.id
	WHERE u.role = 'transcriber'
	GROUP BY u.id, u.username ORDER BY u.username`)
}

// ControllerStats returns per controller outcome totals
func (db *DB) ControllerStats(ctx context.Context) ([]*persistence.UserTotals, error) {
	return db.userTotals(ctx, `SELECT u.id, u.username, `+outcomeFilters+`
	FROM users u JOIN transcriptions t ON t.controlled_by = u.id
	WHERE u.role = 'controller'
	GROUP BY u.id, u.username ORDER BY u.username`)
}

func (db *DB) userTotals(ctx context.Context, sql string, args ...any) ([]*persistence.UserTotals, error) {
	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("can't load user stats: %w", err)
	}
	defer rows.Close()
	var res []*persistence.UserTotals
	for rows.Next() {
		var ut persistence.UserTotals
		if err := rows.Scan(&ut.UserID, &ut.Username, &ut.Total, &ut.Correct, &ut.Incorrect, &ut.Unsuitable); err != nil {
			return nil, fmt.Errorf("can't scan user stats: %w", err)
		}
		res = append(res, &ut)
	}
	return res, rows.Err()
}

// TranscriberSelfStats returns totals for one transcriber,
// audio hours and today's count date-bucketed by server-local midnight
func (db *DB) TranscriberSelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error) {
	return db.selfStats(ctx, `SELECT u.id, u.username, `+outcomeFilters+`,
	COALESCE(SUM(a.duration) / 3600, 0),
	count(*) FILTER (WHERE t.trans_date >= current_date)
	FROM users u
	LEFT JOIN transcriptions t ON t.verified_by = u.id
	LEFT JOIN audio a ON a.id = t.audio_id
	WHERE u.id = $1
	GROUP BY u.id, u.username`, userID)
}

// ControllerSelfStats returns totals for one controller
func (db *DB) ControllerSelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error) {
	return db.selfStats(ctx, `SELECT u.id, u.username, `+outcomeFilters+`,
	COALESCE(SUM(a.duration) / 3600, 0),
	count(*) FILTER (WHERE t.ctrl_date >= current_date)
	FROM users u
	LEFT JOIN transcriptions t ON t.controlled_by = u.id
	LEFT JOIN audio a ON a.id = t.audio_id
	WHERE u.id = $1
	GROUP BY u.id, u.username`, userID)
}

func (db *DB) selfStats(ctx context.Context, sql, userID string) (*persistence.UserTotals, error) {
	var res persistence.UserTotals
	err := db.pool.QueryRow(ctx, sql, userID).Scan(&res.UserID, &res.Username, &res.Total,
		&res.Correct, &res.Incorrect, &res.Unsuitable, &res.AudioHours, &res.DoneToday)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("can't load self stats: %w", err)
	}
	return &res, nil
}
