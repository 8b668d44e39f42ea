package mocks

import (
	"context"

	"github.com/airenas/scribe/internal/pkg/auth"
	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/postgres"
	"github.com/airenas/scribe/internal/pkg/reporting"
	"github.com/airenas/scribe/internal/pkg/workflow"
	"github.com/stretchr/testify/mock"
)

// DB is postgres DB mock
type DB struct{ mock.Mock }

func (m *DB) InsertUser(ctx context.Context, user *persistence.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *DB) LoadUser(ctx context.Context, id string) (*persistence.User, error) {
	args := m.Called(ctx, id)
	return to[*persistence.User](args.Get(0)), args.Error(1)
}

func (m *DB) LoadUserByUsername(ctx context.Context, username string) (*persistence.User, error) {
	args := m.Called(ctx, username)
	return to[*persistence.User](args.Get(0)), args.Error(1)
}

func (m *DB) ListUsers(ctx context.Context) ([]*persistence.User, error) {
	args := m.Called(ctx)
	return to[[]*persistence.User](args.Get(0)), args.Error(1)
}

func (m *DB) InsertAudio(ctx context.Context, audio *persistence.Audio) error {
	args := m.Called(ctx, audio)
	return args.Error(0)
}

func (m *DB) LoadAudio(ctx context.Context, id string) (*persistence.Audio, error) {
	args := m.Called(ctx, id)
	return to[*persistence.Audio](args.Get(0)), args.Error(1)
}

func (m *DB) ListAudio(ctx context.Context) ([]*persistence.Audio, error) {
	args := m.Called(ctx)
	return to[[]*persistence.Audio](args.Get(0)), args.Error(1)
}

func (m *DB) AssignAudio(ctx context.Context, id, userID string) (*persistence.Audio, error) {
	args := m.Called(ctx, id, userID)
	return to[*persistence.Audio](args.Get(0)), args.Error(1)
}

func (m *DB) SubmitTranscriber(ctx context.Context, in *postgres.TranscriberSubmission) (*persistence.Transcription, error) {
	args := m.Called(ctx, in)
	return to[*persistence.Transcription](args.Get(0)), args.Error(1)
}

func (m *DB) SubmitController(ctx context.Context, in *postgres.ControllerSubmission) (*persistence.Transcription, error) {
	args := m.Called(ctx, in)
	return to[*persistence.Transcription](args.Get(0)), args.Error(1)
}

func (m *DB) LoadTranscriptionByAudio(ctx context.Context, audioID string) (*persistence.Transcription, error) {
	args := m.Called(ctx, audioID)
	return to[*persistence.Transcription](args.Get(0)), args.Error(1)
}

func (m *DB) StatusCounts(ctx context.Context) ([]*persistence.StatusCount, error) {
	args := m.Called(ctx)
	return to[[]*persistence.StatusCount](args.Get(0)), args.Error(1)
}

func (m *DB) WorkRows(ctx context.Context) ([]*persistence.WorkRow, error) {
	args := m.Called(ctx)
	return to[[]*persistence.WorkRow](args.Get(0)), args.Error(1)
}

func (m *DB) TranscriberStats(ctx context.Context) ([]*persistence.UserTotals, error) {
	args := m.Called(ctx)
	return to[[]*persistence.UserTotals](args.Get(0)), args.Error(1)
}

func (m *DB) ControllerStats(ctx context.Context) ([]*persistence.UserTotals, error) {
	args := m.Called(ctx)
	return to[[]*persistence.UserTotals](args.Get(0)), args.Error(1)
}

func (m *DB) TranscriberSelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error) {
	args := m.Called(ctx, userID)
	return to[*persistence.UserTotals](args.Get(0)), args.Error(1)
}

func (m *DB) ControllerSelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error) {
	args := m.Called(ctx, userID)
	return to[*persistence.UserTotals](args.Get(0)), args.Error(1)
}

// Workflow is orchestrator mock
type Workflow struct{ mock.Mock }

func (m *Workflow) Assign(ctx context.Context, audioID string, caller *auth.Identity) (*persistence.Audio, error) {
	args := m.Called(ctx, audioID, caller)
	return to[*persistence.Audio](args.Get(0)), args.Error(1)
}

func (m *Workflow) SubmitTranscriber(ctx context.Context, audioID string, caller *auth.Identity,
	text string, isUnsuitable bool, comments string) (*persistence.Transcription, error) {
	args := m.Called(ctx, audioID, caller, text, isUnsuitable, comments)
	return to[*persistence.Transcription](args.Get(0)), args.Error(1)
}

func (m *Workflow) SubmitController(ctx context.Context, audioID string, caller *auth.Identity,
	isCorrect, isUnsuitable bool, comments string) (*persistence.Transcription, error) {
	args := m.Called(ctx, audioID, caller, isCorrect, isUnsuitable, comments)
	return to[*persistence.Transcription](args.Get(0)), args.Error(1)
}

func (m *Workflow) GetDetail(ctx context.Context, audioID string, caller *auth.Identity) (*workflow.Detail, error) {
	args := m.Called(ctx, audioID, caller)
	return to[*workflow.Detail](args.Get(0)), args.Error(1)
}

// Reports is aggregator mock
type Reports struct{ mock.Mock }

func (m *Reports) StatusCounts(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return to[map[string]int64](args.Get(0)), args.Error(1)
}

func (m *Reports) WorkReport(ctx context.Context) ([]*reporting.WorkItem, error) {
	args := m.Called(ctx)
	return to[[]*reporting.WorkItem](args.Get(0)), args.Error(1)
}

func (m *Reports) TranscriberStats(ctx context.Context) ([]*persistence.UserTotals, error) {
	args := m.Called(ctx)
	return to[[]*persistence.UserTotals](args.Get(0)), args.Error(1)
}

func (m *Reports) ControllerStats(ctx context.Context) ([]*persistence.UserTotals, error) {
	args := m.Called(ctx)
	return to[[]*persistence.UserTotals](args.Get(0)), args.Error(1)
}

func (m *Reports) SelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error) {
	args := m.Called(ctx, userID)
	return to[*persistence.UserTotals](args.Get(0)), args.Error(1)
}

func (m *Reports) ControllerSelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error) {
	args := m.Called(ctx, userID)
	return to[*persistence.UserTotals](args.Get(0)), args.Error(1)
}

func (m *Reports) History(ctx context.Context, audioID string) ([]*reporting.HistoryEntry, error) {
	args := m.Called(ctx, audioID)
	return to[[]*reporting.HistoryEntry](args.Get(0)), args.Error(1)
}

// Notifier is ws notifier mock
type Notifier struct{ mock.Mock }

func (m *Notifier) StatusChanged(id, newStatus string) {
	m.Called(id, newStatus)
}

func to[T interface{}](val interface{}) T {
	if val == nil {
		var res T
		return res
	}
	return val.(T)
}
