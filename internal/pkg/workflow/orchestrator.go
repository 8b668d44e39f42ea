package workflow

import (
	"context"
	"fmt"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/scribe/internal/pkg/auth"
	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/postgres"
	"github.com/airenas/scribe/internal/pkg/roles"
	"github.com/airenas/scribe/internal/pkg/status"
	"github.com/airenas/scribe/internal/pkg/utils"
)

// DB provides atomic workflow persistence.
// Assign and both Submit ops check their preconditions at write time,
// so lost races surface as Conflict, never as silent double writes.
type DB interface {
	LoadAudio(ctx context.Context, id string) (*persistence.Audio, error)
	AssignAudio(ctx context.Context, id, userID string) (*persistence.Audio, error)
	SubmitTranscriber(ctx context.Context, in *postgres.TranscriberSubmission) (*persistence.Transcription, error)
	SubmitController(ctx context.Context, in *postgres.ControllerSubmission) (*persistence.Transcription, error)
	LoadTranscriptionByAudio(ctx context.Context, audioID string) (*persistence.Transcription, error)
}

// Notifier pushes status change events to subscribers
type Notifier interface {
	StatusChanged(id, newStatus string)
}

// Orchestrator executes the workflow state transitions
type Orchestrator struct {
	db       DB
	notifier Notifier
}

// NewOrchestrator creates orchestrator instance
func NewOrchestrator(db DB, notifier Notifier) (*Orchestrator, error) {
	if db == nil {
		return nil, fmt.Errorf("no DB")
	}
	return &Orchestrator{db: db, notifier: notifier}, nil
}

// Assign claims not started audio for the caller.
// Exactly one of concurrent callers wins, others get Conflict.
func (o *Orchestrator) Assign(ctx context.Context, audioID string, caller *auth.Identity) (*persistence.Audio, error) {
	res, err := o.db.AssignAudio(ctx, audioID, caller.ID)
	if err != nil {
		return nil, err
	}
	goapp.Log.Info().Str("ID", audioID).Str("user", caller.ID).Msg("audio assigned")
	o.notify(audioID, res.Status)
	return res, nil
}

// SubmitTranscriber stores the transcript and moves audio to
// transcriber_verified, or straight to unsuitable when flagged.
// Resubmission before control overwrites the prior snapshot.
func (o *Orchestrator) SubmitTranscriber(ctx context.Context, audioID string, caller *auth.Identity,
	text string, isUnsuitable bool, comments string) (*persistence.Transcription, error) {
	res, err := o.db.SubmitTranscriber(ctx, &postgres.TranscriberSubmission{AudioID: audioID,
		UserID: caller.ID, Text: text, IsUnsuitable: isUnsuitable, Comments: comments})
	if err != nil {
		return nil, err
	}
	newStatus := status.TranscriberVerified
	if isUnsuitable {
		newStatus = status.Unsuitable
	}
	goapp.Log.Info().Str("ID", audioID).Str("user", caller.ID).Str("status", newStatus.String()).
		Msg("transcriber submitted")
	o.notify(audioID, newStatus.String())
	return res, nil
}

// SubmitController records the control verdict and moves audio to
// controller_verified or unsuitable. Unsuitable wins over isCorrect.
func (o *Orchestrator) SubmitController(ctx context.Context, audioID string, caller *auth.Identity,
	isCorrect, isUnsuitable bool, comments string) (*persistence.Transcription, error) {
	res, err := o.db.SubmitController(ctx, &postgres.ControllerSubmission{AudioID: audioID,
		UserID: caller.ID, IsCorrect: isCorrect, IsUnsuitable: isUnsuitable, Comments: comments})
	if err != nil {
		return nil, err
	}
	newStatus := status.ControllerVerified
	if isUnsuitable {
		newStatus = status.Unsuitable
	}
	goapp.Log.Info().Str("ID", audioID).Str("user", caller.ID).Str("status", newStatus.String()).
		Msg("controller submitted")
	o.notify(audioID, newStatus.String())
	return res, nil
}

// Detail is audio with its transcription, if any
type Detail struct {
	Audio         *persistence.Audio
	Transcription *persistence.Transcription
}

// GetDetail loads audio with role scoped visibility:
// admin sees all, a transcriber only own assignments,
// a controller only audio past the transcriber stage.
func (o *Orchestrator) GetDetail(ctx context.Context, audioID string, caller *auth.Identity) (*Detail, error) {
	audio, err := o.db.LoadAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}
	if audio == nil {
		return nil, fmt.Errorf("no audio '%s': %w", audioID, utils.ErrNotFound)
	}
	if err := checkVisibility(audio, caller); err != nil {
		return nil, err
	}
	tr, err := o.db.LoadTranscriptionByAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}
	return &Detail{Audio: audio, Transcription: tr}, nil
}

func checkVisibility(audio *persistence.Audio, caller *auth.Identity) error {
	switch caller.Role {
	case roles.Admin:
		return nil
	case roles.Transcriber:
		if utils.FromSQLStr(audio.AssignedTo) == caller.ID {
			return nil
		}
	case roles.Controller:
		if status.AtLeastTranscribed(status.From(audio.Status)) {
			return nil
		}
	}
	return fmt.Errorf("audio '%s' not visible for caller: %w", audio.ID, utils.ErrForbidden)
}

func (o *Orchestrator) notify(id, newStatus string) {
	if o.notifier != nil {
		o.notifier.StatusChanged(id, newStatus)
	}
}
