package persistence

import (
	"database/sql"
	"time"
)

type (

	//User table
	User struct {
		ID           string
		Username     string
		PasswordHash string
		Role         string
		Created      time.Time
	}

	//Audio table - one record per audio file in the workflow
	Audio struct {
		ID         string
		Filename   string
		Duration   sql.NullFloat64
		Status     string
		AssignedTo sql.NullString
		Created    time.Time
		Updated    time.Time
	}

	//TranscriberVerification - snapshot taken at transcriber submission
	TranscriberVerification struct {
		IsUnsuitable bool
		Date         time.Time
		Comments     sql.NullString
		Text         string
	}

	//ControllerVerification - snapshot taken at controller submission
	ControllerVerification struct {
		IsCorrect    bool
		IsUnsuitable bool
		Date         time.Time
		Comments     sql.NullString
		Text         string
	}

	//Transcription table, one per audio
	Transcription struct {
		ID           string
		AudioID      string
		ExistingText string
		VerifiedBy   string
		Transcriber  TranscriberVerification
		ControlledBy sql.NullString
		Controller   *ControllerVerification
	}

	//StatusCount - audio count per workflow status
	StatusCount struct {
		Status string
		Count  int64
	}

	//WorkRow - one work report line per audio+transcription pair
	WorkRow struct {
		AudioID      string
		Filename     string
		Status       string
		Transcriber  sql.NullString
		Controller   sql.NullString
		IsCorrect    sql.NullBool
		IsUnsuitable sql.NullBool
		Date         time.Time
	}

	//UserTotals - per user outcome counts
	UserTotals struct {
		UserID     string
		Username   string
		Total      int64
		Correct    int64
		Incorrect  int64
		Unsuitable int64
		AudioHours float64
		DoneToday  int64
	}
)
