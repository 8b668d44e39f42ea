package reporting_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/reporting"
	"github.com/airenas/scribe/internal/pkg/test"
	"github.com/airenas/scribe/internal/pkg/test/mocks"
	"github.com/airenas/scribe/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	dbMock *mocks.DB
	aggr   *reporting.Aggregator
)

func initTest(t *testing.T) {
	t.Helper()
	dbMock = &mocks.DB{}
	var err error
	aggr, err = reporting.NewAggregator(dbMock)
	require.Nil(t, err)
}

func TestNewAggregator_FailNoDB(t *testing.T) {
	_, err := reporting.NewAggregator(nil)
	assert.NotNil(t, err)
}

func TestStatusCounts(t *testing.T) {
	initTest(t)
	dbMock.On("StatusCounts", mock.Anything).Return([]*persistence.StatusCount{
		{Status: "not_started", Count: 5}, {Status: "in_progress", Count: 2}}, nil)

	res, err := aggr.StatusCounts(test.Ctx(t))
	require.Nil(t, err)
	assert.Equal(t, map[string]int64{"not_started": 5, "in_progress": 2}, res)
}

func sqlBool(b bool) sql.NullBool {
	return sql.NullBool{Bool: b, Valid: true}
}

func TestWorkReport_Verdicts(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		row  *persistence.WorkRow
		want string
	}{
		{name: "correct", row: &persistence.WorkRow{IsCorrect: sqlBool(true)}, want: "correct"},
		{name: "correct wins over unsuitable flag order", row: &persistence.WorkRow{
			IsCorrect: sqlBool(true), IsUnsuitable: sqlBool(true)}, want: "correct"},
		{name: "unsuitable", row: &persistence.WorkRow{IsCorrect: sqlBool(false),
			IsUnsuitable: sqlBool(true)}, want: "unsuitable"},
		{name: "incorrect", row: &persistence.WorkRow{IsCorrect: sqlBool(false),
			IsUnsuitable: sqlBool(false)}, want: "incorrect"},
		{name: "not controlled", row: &persistence.WorkRow{}, want: "incorrect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initTest(t)
			tt.row.AudioID, tt.row.Filename, tt.row.Date = "a1", "a.wav", now
			dbMock.On("WorkRows", mock.Anything).Return([]*persistence.WorkRow{tt.row}, nil)

			res, err := aggr.WorkReport(test.Ctx(t))
			require.Nil(t, err)
			require.Len(t, res, 1)
			assert.Equal(t, tt.want, res[0].Verdict)
			assert.Equal(t, "a.wav", res[0].Filename)
		})
	}
}

func TestHistory_Empty(t *testing.T) {
	initTest(t)
	dbMock.On("LoadTranscriptionByAudio", mock.Anything, "a1").Return(nil, nil)

	res, err := aggr.History(test.Ctx(t), "a1")
	require.Nil(t, err)
	assert.Len(t, res, 0)
}

func TestHistory_TranscriberOnly(t *testing.T) {
	initTest(t)
	date := time.Date(2023, 2, 10, 10, 0, 0, 0, time.UTC)
	dbMock.On("LoadTranscriptionByAudio", mock.Anything, "a1").Return(
		&persistence.Transcription{AudioID: "a1", VerifiedBy: "u1",
			Transcriber: persistence.TranscriberVerification{Date: date, Text: "hello"}}, nil)

	res, err := aggr.History(test.Ctx(t), "a1")
	require.Nil(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "transcriber", res[0].Stage)
	assert.Equal(t, "u1", res[0].By)
	assert.Equal(t, "hello", res[0].Text)
}

func TestHistory_BothStagesNewestFirst(t *testing.T) {
	initTest(t)
	trDate := time.Date(2023, 2, 10, 10, 0, 0, 0, time.UTC)
	ctrlDate := trDate.Add(time.Hour)
	correct := true
	dbMock.On("LoadTranscriptionByAudio", mock.Anything, "a1").Return(
		&persistence.Transcription{AudioID: "a1", VerifiedBy: "u1",
			Transcriber:  persistence.TranscriberVerification{Date: trDate, Text: "hello"},
			ControlledBy: utils.ToSQLStr("u2"),
			Controller: &persistence.ControllerVerification{IsCorrect: correct,
				Date: ctrlDate, Text: "hello"}}, nil)

	res, err := aggr.History(test.Ctx(t), "a1")
	require.Nil(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "controller", res[0].Stage)
	assert.Equal(t, "transcriber", res[1].Stage)
	assert.True(t, res[0].Date.After(res[1].Date))
	require.NotNil(t, res[0].IsCorrect)
	assert.True(t, *res[0].IsCorrect)
	assert.Nil(t, res[1].IsCorrect)
}

func TestSelfStats(t *testing.T) {
	initTest(t)
	dbMock.On("TranscriberSelfStats", mock.Anything, "u1").Return(
		&persistence.UserTotals{UserID: "u1", Username: "olia", Total: 3, AudioHours: 1.5}, nil)

	res, err := aggr.SelfStats(test.Ctx(t), "u1")
	require.Nil(t, err)
	assert.Equal(t, int64(3), res.Total)
	assert.Equal(t, 1.5, res.AudioHours)
}

func TestSelfStats_FailNoUser(t *testing.T) {
	initTest(t)
	dbMock.On("TranscriberSelfStats", mock.Anything, "u1").Return(nil, nil)

	_, err := aggr.SelfStats(test.Ctx(t), "u1")
	assert.True(t, errors.Is(err, utils.ErrNotFound))
}
