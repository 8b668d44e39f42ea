package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/status"
	"github.com/airenas/scribe/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB provides operations with postgresql
type DB struct {
	pool *pgxpool.Pool
}

// NewDB creates DB instance
func NewDB(pool *pgxpool.Pool) (*DB, error) {
	res := &DB{pool: pool}
	return res, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolation = "23505"

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// InsertUser inserts user into DB
func (db *DB) InsertUser(ctx context.Context, user *persistence.User) error {
	_, err := db.pool.Exec(ctx, `INSERT INTO users(id, username, password_hash, role, created)
	VALUES($1, $2, $3, $4, $5)`, user.ID, user.Username, user.PasswordHash, user.Role, user.Created)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("user '%s' exists: %w", user.Username, utils.ErrConflict)
		}
		return fmt.Errorf("can't insert user: %w", err)
	}
	return nil
}

// LoadUser loads user from DB, returns nil if not found
func (db *DB) LoadUser(ctx context.Context, id string) (*persistence.User, error) {
	return scanUser(db.pool.QueryRow(ctx, `SELECT id, username, password_hash, role, created FROM users
		WHERE id = $1`, id))
}

// LoadUserByUsername loads user from DB, returns nil if not found
func (db *DB) LoadUserByUsername(ctx context.Context, username string) (*persistence.User, error) {
	return scanUser(db.pool.QueryRow(ctx, `SELECT id, username, password_hash, role, created FROM users
		WHERE username = $1`, username))
}

func scanUser(row pgx.Row) (*persistence.User, error) {
	var res persistence.User
	err := row.Scan(&res.ID, &res.Username, &res.PasswordHash, &res.Role, &res.Created)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("can't load user: %w", err)
	}
	return &res, nil
}

// ListUsers loads all users from DB
func (db *DB) ListUsers(ctx context.Context) ([]*persistence.User, error) {
	rows, err := db.pool.Query(ctx, `SELECT id, username, password_hash, role, created FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("can't load users: %w", err)
	}
	defer rows.Close()
	var res []*persistence.User
	for rows.Next() {
		var u persistence.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Created); err != nil {
			return nil, fmt.Errorf("can't scan user: %w", err)
		}
		res = append(res, &u)
	}
	return res, rows.Err()
}

// InsertAudio inserts audio record into DB
func (db *DB) InsertAudio(ctx context.Context, audio *persistence.Audio) error {
	_, err := db.pool.Exec(ctx, `INSERT INTO audio(id, filename, duration, status, created, updated)
	VALUES($1, $2, $3, $4, $5, $5)`, audio.ID, audio.Filename, audio.Duration, audio.Status, audio.Created)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("audio '%s' exists: %w", audio.Filename, utils.ErrConflict)
		}
		return fmt.Errorf("can't insert audio: %w", err)
	}
	return nil
}

const audioFields = `id, filename, duration, status, assigned_to, created, updated`

// LoadAudio loads audio from DB, returns nil if not found
func (db *DB) LoadAudio(ctx context.Context, id string) (*persistence.Audio, error) {
	return loadAudio(ctx, db.pool, id)
}

func loadAudio(ctx context.Context, q querier, id string) (*persistence.Audio, error) {
	var res persistence.Audio
	err := q.QueryRow(ctx, `SELECT `+audioFields+` FROM audio WHERE id = $1`, id).
		Scan(&res.ID, &res.Filename, &res.Duration, &res.Status, &res.AssignedTo, &res.Created, &res.Updated)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("can't load audio: %w", err)
	}
	return &res, nil
}

// ListAudio loads all audio records from DB
func (db *DB) ListAudio(ctx context.Context) ([]*persistence.Audio, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+audioFields+` FROM audio ORDER BY created`)
	if err != nil {
		return nil, fmt.Errorf("can't load audio list: %w", err)
	}
	defer rows.Close()
	var res []*persistence.Audio
	for rows.Next() {
		var a persistence.Audio
		if err := rows.Scan(&a.ID, &a.Filename, &a.Duration, &a.Status, &a.AssignedTo, &a.Created, &a.Updated); err != nil {
			return nil, fmt.Errorf("can't scan audio: %w", err)
		}
		res = append(res, &a)
	}
	return res, rows.Err()
}

// AssignAudio claims audio for a transcriber.
// Single conditional update - succeeds only if the record is still unclaimed,
// so concurrent claims on the same audio produce exactly one winner.
func (db *DB) AssignAudio(ctx context.Context, id, userID string) (*persistence.Audio, error) {
	cmd, err := db.pool.Exec(ctx, `UPDATE audio SET status = $2, assigned_to = $3, updated = now()
	WHERE id = $1 AND status = $4 AND assigned_to IS NULL`,
		id, status.InProgress.String(), userID, status.NotStarted.String())
	if err != nil {
		return nil, fmt.Errorf("can't assign audio: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		audio, err := db.LoadAudio(ctx, id)
		if err != nil {
			return nil, err
		}
		if audio == nil {
			return nil, fmt.Errorf("no audio '%s': %w", id, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("audio '%s' already claimed: %w", id, utils.ErrConflict)
	}
	return db.LoadAudio(ctx, id)
}

// TranscriberSubmission is input for the transcriber stage update
type TranscriberSubmission struct {
	AudioID      string
	UserID       string
	Text         string
	IsUnsuitable bool
	Comments     string
}

// SubmitTranscriber applies the transcriber stage in one transaction:
// audio status moves forward and the transcription is upserted with its snapshot.
// Both writes commit or neither does.
func (db *DB) SubmitTranscriber(ctx context.Context, in *TranscriberSubmission) (*persistence.Transcription, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't begin tx: %v: %w", err, utils.ErrUnavailable)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newStatus := status.TranscriberVerified
	if in.IsUnsuitable {
		newStatus = status.Unsuitable
	}
	cmd, err := tx.Exec(ctx, `UPDATE audio SET status = $2, updated = now()
	WHERE id = $1 AND assigned_to = $3 AND status IN ($4, $5)`,
		in.AudioID, newStatus.String(), in.UserID, status.InProgress.String(), status.TranscriberVerified.String())
	if err != nil {
		return nil, fmt.Errorf("can't update audio: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		return nil, db.classifyTranscriberFailure(ctx, tx, in)
	}

	cmd, err = tx.Exec(ctx, `INSERT INTO transcriptions(id, audio_id, existing_text, verified_by,
	trans_unsuitable, trans_date, trans_comments, trans_text)
	VALUES($1, $2, $3, $4, $5, now(), $6, $3)
	ON CONFLICT (audio_id) DO UPDATE SET existing_text = EXCLUDED.existing_text,
	verified_by = EXCLUDED.verified_by, trans_unsuitable = EXCLUDED.trans_unsuitable,
	trans_date = EXCLUDED.trans_date, trans_comments = EXCLUDED.trans_comments,
	trans_text = EXCLUDED.trans_text
	WHERE transcriptions.controlled_by IS NULL`,
		uuid.NewString(), in.AudioID, in.Text, in.UserID, in.IsUnsuitable, utils.ToSQLStr(in.Comments))
	if err != nil {
		return nil, fmt.Errorf("can't upsert transcription: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		return nil, fmt.Errorf("transcription for '%s' already controlled: %w", in.AudioID, utils.ErrConflict)
	}

	res, err := loadTranscription(ctx, tx, in.AudioID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("can't commit: %v: %w", err, utils.ErrUnavailable)
	}
	return res, nil
}

func (db *DB) classifyTranscriberFailure(ctx context.Context, tx pgx.Tx, in *TranscriberSubmission) error {
	audio, err := loadAudio(ctx, tx, in.AudioID)
	if err != nil {
		return err
	}
	if audio == nil {
		return fmt.Errorf("no audio '%s': %w", in.AudioID, utils.ErrNotFound)
	}
	if utils.FromSQLStr(audio.AssignedTo) != in.UserID {
		return fmt.Errorf("audio '%s' not assigned to caller: %w", in.AudioID, utils.ErrForbidden)
	}
	return fmt.Errorf("audio '%s' in state '%s': %w", in.AudioID, audio.Status, utils.ErrConflict)
}

// ControllerSubmission is input for the controller stage update
type ControllerSubmission struct {
	AudioID      string
	UserID       string
	IsCorrect    bool
	IsUnsuitable bool
	Comments     string
}

// SubmitController applies the controller stage in one transaction.
// The audio must still be in transcriber_verified state and the
// transcription not yet controlled - both checked at write time.
func (db *DB) SubmitController(ctx context.Context, in *ControllerSubmission) (*persistence.Transcription, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't begin tx: %v: %w", err, utils.ErrUnavailable)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newStatus := status.ControllerVerified
	if in.IsUnsuitable {
		newStatus = status.Unsuitable
	}
	cmd, err := tx.Exec(ctx, `UPDATE audio SET status = $2, updated = now()
	WHERE id = $1 AND status = $3`,
		in.AudioID, newStatus.String(), status.TranscriberVerified.String())
	if err != nil {
		return nil, fmt.Errorf("can't update audio: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		audio, err := loadAudio(ctx, tx, in.AudioID)
		if err != nil {
			return nil, err
		}
		if audio == nil {
			return nil, fmt.Errorf("no audio '%s': %w", in.AudioID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("audio '%s' in state '%s', not ready for control: %w", in.AudioID,
			audio.Status, utils.ErrConflict)
	}

	// ctrl_text snapshots the transcript as it is at control time
	cmd, err = tx.Exec(ctx, `UPDATE transcriptions SET controlled_by = $2, ctrl_correct = $3,
	ctrl_unsuitable = $4, ctrl_date = now(), ctrl_comments = $5, ctrl_text = existing_text
	WHERE audio_id = $1 AND controlled_by IS NULL`,
		in.AudioID, in.UserID, in.IsCorrect, in.IsUnsuitable, utils.ToSQLStr(in.Comments))
	if err != nil {
		return nil, fmt.Errorf("can't update transcription: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		tr, err := loadTranscription(ctx, tx, in.AudioID)
		if err != nil {
			return nil, err
		}
		if tr == nil {
			return nil, fmt.Errorf("no transcription for audio '%s': %w", in.AudioID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("transcription for '%s' already controlled: %w", in.AudioID, utils.ErrConflict)
	}

	res, err := loadTranscription(ctx, tx, in.AudioID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("can't commit: %v: %w", err, utils.ErrUnavailable)
	}
	return res, nil
}

const transcriptionFields = `id, audio_id, existing_text, verified_by, trans_unsuitable, trans_date,
	trans_comments, trans_text, controlled_by, ctrl_correct, ctrl_unsuitable, ctrl_date, ctrl_comments, ctrl_text`

// LoadTranscriptionByAudio loads transcription from DB, returns nil if not found
func (db *DB) LoadTranscriptionByAudio(ctx context.Context, audioID string) (*persistence.Transcription, error) {
	return loadTranscription(ctx, db.pool, audioID)
}

func loadTranscription(ctx context.Context, q querier, audioID string) (*persistence.Transcription, error) {
	var res persistence.Transcription
	var ctrlCorrect, ctrlUnsuitable sql.NullBool
	var ctrlDate sql.NullTime
	var ctrlComments, ctrlText sql.NullString
	err := q.QueryRow(ctx, `SELECT `+transcriptionFields+` FROM transcriptions WHERE audio_id = $1`, audioID).
		Scan(&res.ID, &res.AudioID, &res.ExistingText, &res.VerifiedBy,
			&res.Transcriber.IsUnsuitable, &res.Transcriber.Date, &res.Transcriber.Comments, &res.Transcriber.Text,
			&res.ControlledBy, &ctrlCorrect, &ctrlUnsuitable, &ctrlDate, &ctrlComments, &ctrlText)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("can't load transcription: %w", err)
	}
	if res.ControlledBy.Valid {
		res.Controller = &persistence.ControllerVerification{IsCorrect: ctrlCorrect.Bool,
			IsUnsuitable: ctrlUnsuitable.Bool, Date: ctrlDate.Time,
			Comments: ctrlComments, Text: ctrlText.String}
	}
	return &res, nil
}

// Live returns no error if db is reachable and initialized
func (db *DB) Live(ctx context.Context) error {
	var exists bool
	if err := db.pool.QueryRow(ctx, `SELECT EXISTS (SELECT FROM pg_tables WHERE tablename = 'audio')`).Scan(&exists); err != nil {
		return fmt.Errorf("can't check table: %w", err)
	}
	if !exists {
		return fmt.Errorf("no migration done")
	}
	return nil
}
