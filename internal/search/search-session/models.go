package searchsession

import (
	"context"
	"time"

	"records-search/internal/models"
	resolutionbridge "records-search/internal/search/resolution-bridge"
)

// Step is the active stage of a session.
type Step string

const (
	StepSelectingMode          Step = "SelectingMode"
	StepCapturingInput         Step = "CapturingInput"
	StepSelectingJurisdictions Step = "SelectingJurisdictions"
	StepSubmitting             Step = "Submitting"
	StepCompleted              Step = "Completed"
	StepFailed                 Step = "Failed"
)

// Submitter is the resolution bridge as seen by a session.
type Submitter interface {
	Submit(ctx context.Context, req models.SearchRequest) (*resolutionbridge.EngineResponse, error)
}

// Snapshot is a consistent read of a session's state.
type Snapshot struct {
	ID        string
	Step      Step
	Request   models.SearchRequest
	LastError error
	Attempts  int
	Abandoned bool
	CreatedAt time.Time
}
