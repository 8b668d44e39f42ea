package reporting

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/utils"
)

// DB provides read only projections over the audio and transcription stores
type DB interface {
	StatusCounts(ctx context.Context) ([]*persistence.StatusCount, error)
	WorkRows(ctx context.Context) ([]*persistence.WorkRow, error)
	TranscriberStats(ctx context.Context) ([]*persistence.UserTotals, error)
	ControllerStats(ctx context.Context) ([]*persistence.UserTotals, error)
	TranscriberSelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error)
	ControllerSelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error)
	LoadTranscriptionByAudio(ctx context.Context, audioID string) (*persistence.Transcription, error)
}

// Aggregator composes reports from both stores, never writes
type Aggregator struct {
	db DB
}

// NewAggregator creates aggregator instance
func NewAggregator(db DB) (*Aggregator, error) {
	if db == nil {
		return nil, fmt.Errorf("no DB")
	}
	return &Aggregator{db: db}, nil
}

// StatusCounts returns audio count per workflow status
func (a *Aggregator) StatusCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := a.db.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	res := map[string]int64{}
	for _, r := range rows {
		res[r.Status] = r.Count
	}
	return res, nil
}

// WorkItem is one work report line
type WorkItem struct {
	AudioID     string    `json:"audioId"`
	Filename    string    `json:"filename"`
	Status      string    `json:"status"`
	Transcriber string    `json:"transcriber,omitempty"`
	Controller  string    `json:"controller,omitempty"`
	Verdict     string    `json:"verdict"`
	Date        time.Time `json:"date"`
}

// WorkReport returns one line per audio+transcription pair, newest first
func (a *Aggregator) WorkReport(ctx context.Context) ([]*WorkItem, error) {
	rows, err := a.db.WorkRows(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*WorkItem, 0, len(rows))
	for _, r := range rows {
		res = append(res, &WorkItem{AudioID: r.AudioID, Filename: r.Filename, Status: r.Status,
			Transcriber: utils.FromSQLStr(r.Transcriber), Controller: utils.FromSQLStr(r.Controller),
			Verdict: verdict(r.IsCorrect, r.IsUnsuitable), Date: r.Date})
	}
	return res, nil
}

// verdict label: correct wins, then unsuitable, anything else reviewed is incorrect
func verdict(isCorrect, isUnsuitable sql.NullBool) string {
	if isCorrect.Valid && isCorrect.Bool {
		return "correct"
	}
	if isUnsuitable.Valid && isUnsuitable.Bool {
		return "unsuitable"
	}
	return "incorrect"
}

// TranscriberStats returns per transcriber outcome totals
func (a *Aggregator) TranscriberStats(ctx context.Context) ([]*persistence.UserTotals, error) {
	return a.db.TranscriberStats(ctx)
}

// ControllerStats returns per controller outcome totals
func (a *Aggregator) ControllerStats(ctx context.Context) ([]*persistence.UserTotals, error) {
	return a.db.ControllerStats(ctx)
}

// SelfStats returns totals for one transcriber
func (a *Aggregator) SelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error) {
	res, err := a.db.TranscriberSelfStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("no user '%s': %w", userID, utils.ErrNotFound)
	}
	return res, nil
}

// ControllerSelfStats returns totals for one controller
func (a *Aggregator) ControllerSelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error) {
	res, err := a.db.ControllerSelfStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("no user '%s': %w", userID, utils.ErrNotFound)
	}
	return res, nil
}

// HistoryEntry is one audit snapshot of the transcript
type HistoryEntry struct {
	Stage        string    `json:"stage"`
	By           string    `json:"by"`
	Date         time.Time `json:"date"`
	Text         string    `json:"text"`
	Comments     string    `json:"comments,omitempty"`
	IsCorrect    *bool     `json:"isCorrect,omitempty"`
	IsUnsuitable bool      `json:"isUnsuitable"`
}

// History returns the audit snapshots for audio, newest first.
// 0, 1 or 2 entries depending on which stages happened.
func (a *Aggregator) History(ctx context.Context, audioID string) ([]*HistoryEntry, error) {
	tr, err := a.db.LoadTranscriptionByAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}
	res := []*HistoryEntry{}
	if tr == nil {
		return res, nil
	}
	if tr.Controller != nil {
		correct := tr.Controller.IsCorrect
		res = append(res, &HistoryEntry{Stage: "controller", By: utils.FromSQLStr(tr.ControlledBy),
			Date: tr.Controller.Date, Text: tr.Controller.Text,
			Comments: utils.FromSQLStr(tr.Controller.Comments),
			IsCorrect: &correct, IsUnsuitable: tr.Controller.IsUnsuitable})
	}
	res = append(res, &HistoryEntry{Stage: "transcriber", By: tr.VerifiedBy,
		Date: tr.Transcriber.Date, Text: tr.Transcriber.Text,
		Comments:     utils.FromSQLStr(tr.Transcriber.Comments),
		IsUnsuitable: tr.Transcriber.IsUnsuitable})
	return res, nil
}
