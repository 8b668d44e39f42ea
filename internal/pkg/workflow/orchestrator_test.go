package workflow_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/airenas/scribe/internal/pkg/auth"
	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/postgres"
	"github.com/airenas/scribe/internal/pkg/roles"
	"github.com/airenas/scribe/internal/pkg/status"
	"github.com/airenas/scribe/internal/pkg/test"
	"github.com/airenas/scribe/internal/pkg/test/mocks"
	"github.com/airenas/scribe/internal/pkg/utils"
	"github.com/airenas/scribe/internal/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	dbMock       *mocks.DB
	notifierMock *mocks.Notifier
	orch         *workflow.Orchestrator
)

func initTest(t *testing.T) {
	t.Helper()
	dbMock = &mocks.DB{}
	notifierMock = &mocks.Notifier{}
	notifierMock.On("StatusChanged", mock.Anything, mock.Anything)
	var err error
	orch, err = workflow.NewOrchestrator(dbMock, notifierMock)
	require.Nil(t, err)
}

func caller(role roles.Role) *auth.Identity {
	return &auth.Identity{ID: "u1", Role: role}
}

func TestNewOrchestrator_FailNoDB(t *testing.T) {
	_, err := workflow.NewOrchestrator(nil, nil)
	assert.NotNil(t, err)
}

func TestAssign(t *testing.T) {
	initTest(t)
	dbMock.On("AssignAudio", mock.Anything, "a1", "u1").Return(
		&persistence.Audio{ID: "a1", Status: status.InProgress.String(),
			AssignedTo: utils.ToSQLStr("u1")}, nil)

	res, err := orch.Assign(test.Ctx(t), "a1", caller(roles.Transcriber))
	require.Nil(t, err)
	assert.Equal(t, status.InProgress.String(), res.Status)
	notifierMock.AssertCalled(t, "StatusChanged", "a1", status.InProgress.String())
}

func TestAssign_FailPropagates(t *testing.T) {
	initTest(t)
	expected := fmt.Errorf("already claimed: %w", utils.ErrConflict)
	dbMock.On("AssignAudio", mock.Anything, "a1", "u1").Return(nil, expected)

	_, err := orch.Assign(test.Ctx(t), "a1", caller(roles.Transcriber))
	assert.True(t, errors.Is(err, utils.ErrConflict))
	notifierMock.AssertNotCalled(t, "StatusChanged", mock.Anything, mock.Anything)
}

func TestSubmitTranscriber(t *testing.T) {
	initTest(t)
	dbMock.On("SubmitTranscriber", mock.Anything, mock.Anything).Return(
		&persistence.Transcription{ID: "t1", AudioID: "a1", ExistingText: "hello"}, nil)

	res, err := orch.SubmitTranscriber(test.Ctx(t), "a1", caller(roles.Transcriber), "hello", false, "")
	require.Nil(t, err)
	assert.Equal(t, "hello", res.ExistingText)
	dbMock.AssertCalled(t, "SubmitTranscriber", mock.Anything,
		&postgres.TranscriberSubmission{AudioID: "a1", UserID: "u1", Text: "hello"})
	notifierMock.AssertCalled(t, "StatusChanged", "a1", status.TranscriberVerified.String())
}

func TestSubmitTranscriber_Unsuitable(t *testing.T) {
	initTest(t)
	dbMock.On("SubmitTranscriber", mock.Anything, mock.Anything).Return(
		&persistence.Transcription{ID: "t1", AudioID: "a1"}, nil)

	_, err := orch.SubmitTranscriber(test.Ctx(t), "a1", caller(roles.Transcriber), "", true, "noise only")
	require.Nil(t, err)
	notifierMock.AssertCalled(t, "StatusChanged", "a1", status.Unsuitable.String())
}

func TestSubmitController(t *testing.T) {
	initTest(t)
	dbMock.On("SubmitController", mock.Anything, mock.Anything).Return(
		&persistence.Transcription{ID: "t1", AudioID: "a1",
			ControlledBy: utils.ToSQLStr("u1"),
			Controller:   &persistence.ControllerVerification{IsCorrect: true}}, nil)

	res, err := orch.SubmitController(test.Ctx(t), "a1", caller(roles.Controller), true, false, "ok")
	require.Nil(t, err)
	require.NotNil(t, res.Controller)
	assert.True(t, res.Controller.IsCorrect)
	dbMock.AssertCalled(t, "SubmitController", mock.Anything,
		&postgres.ControllerSubmission{AudioID: "a1", UserID: "u1", IsCorrect: true, Comments: "ok"})
	notifierMock.AssertCalled(t, "StatusChanged", "a1", status.ControllerVerified.String())
}

func TestSubmitController_UnsuitableWins(t *testing.T) {
	initTest(t)
	dbMock.On("SubmitController", mock.Anything, mock.Anything).Return(
		&persistence.Transcription{ID: "t1", AudioID: "a1"}, nil)

	_, err := orch.SubmitController(test.Ctx(t), "a1", caller(roles.Controller), true, true, "")
	require.Nil(t, err)
	notifierMock.AssertCalled(t, "StatusChanged", "a1", status.Unsuitable.String())
}

func TestGetDetail(t *testing.T) {
	tests := []struct {
		name    string
		audio   *persistence.Audio
		caller  *auth.Identity
		wantErr error
	}{
		{name: "admin sees all", audio: &persistence.Audio{ID: "a1", Status: "not_started"},
			caller: &auth.Identity{ID: "x", Role: roles.Admin}},
		{name: "transcriber own", audio: &persistence.Audio{ID: "a1", Status: "in_progress",
			AssignedTo: utils.ToSQLStr("u1")}, caller: caller(roles.Transcriber)},
		{name: "transcriber foreign", audio: &persistence.Audio{ID: "a1", Status: "in_progress",
			AssignedTo: utils.ToSQLStr("u2")}, caller: caller(roles.Transcriber),
			wantErr: utils.ErrForbidden},
		{name: "transcriber unassigned", audio: &persistence.Audio{ID: "a1", Status: "not_started"},
			caller: caller(roles.Transcriber), wantErr: utils.ErrForbidden},
		{name: "controller ready", audio: &persistence.Audio{ID: "a1", Status: "transcriber_verified",
			AssignedTo: utils.ToSQLStr("u2")}, caller: caller(roles.Controller)},
		{name: "controller done", audio: &persistence.Audio{ID: "a1", Status: "controller_verified",
			AssignedTo: utils.ToSQLStr("u2")}, caller: caller(roles.Controller)},
		{name: "controller early", audio: &persistence.Audio{ID: "a1", Status: "in_progress",
			AssignedTo: utils.ToSQLStr("u2")}, caller: caller(roles.Controller),
			wantErr: utils.ErrForbidden},
		{name: "missing", audio: nil, caller: &auth.Identity{ID: "x", Role: roles.Admin},
			wantErr: utils.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initTest(t)
			dbMock.On("LoadAudio", mock.Anything, "a1").Return(tt.audio, nil)
			dbMock.On("LoadTranscriptionByAudio", mock.Anything, "a1").Return(nil, nil)

			res, err := orch.GetDetail(test.Ctx(t), "a1", tt.caller)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.audio, res.Audio)
		})
	}
}
