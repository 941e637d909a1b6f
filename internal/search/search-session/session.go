// Package searchsession drives one operator search from mode selection to a
// single resolution engine submission.
package searchsession

import (
	"context"
	"sync"
	"time"

	"records-search/internal/common/errors"
	"records-search/internal/common/logger"
	"records-search/internal/common/metrics"
	"records-search/internal/models"
	inputnormalizer "records-search/internal/search/input-normalizer"
	jurisdictionfilter "records-search/internal/search/jurisdiction-filter"
	resolutionbridge "records-search/internal/search/resolution-bridge"
	submissionaudit "records-search/internal/search/submission-audit"

	"github.com/google/uuid"
)

const auditTimeout = 5 * time.Second

// Session is the search state machine. Its methods may be called from
// different goroutines; the mutex guards state only and is never held while
// the bridge call is in flight.
type Session struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	step      Step
	request   models.SearchRequest
	filters   *jurisdictionfilter.FilterSet
	lastError error
	response  *resolutionbridge.EngineResponse
	attempts  int
	abandoned bool

	bridge   Submitter
	recorder submissionaudit.Recorder
	logger   logger.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder sends every finished submission attempt to r.
func WithRecorder(r submissionaudit.Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New starts a session in SelectingMode over a freshly sorted copy of catalog.
func New(catalog []models.JurisdictionOption, bridge Submitter, log logger.Logger, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		createdAt: time.Now().UTC(),
		step:      StepSelectingMode,
		filters:   jurisdictionfilter.Load(catalog),
		bridge:    bridge,
		recorder:  submissionaudit.NopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.WithFields(map[string]interface{}{"sessionId": s.id})

	metrics.SessionsStarted.Inc()
	s.logger.Debug("Search session started", map[string]interface{}{"jurisdictions": s.filters.Len()})
	return s
}

// ChooseMode fixes the search mode. It is only valid once, in SelectingMode.
func (s *Session) ChooseMode(mode models.SearchMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(StepSelectingMode, "choose-mode"); err != nil {
		return err
	}
	if !mode.Valid() {
		return errors.NewUnknownModeError(string(mode))
	}

	s.request.Mode = mode
	s.transition(StepCapturingInput)
	return nil
}

// CaptureInput normalizes raw for the chosen mode. A validation error leaves
// the session in CapturingInput so the operator can try again.
func (s *Session) CaptureInput(raw interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(StepCapturingInput, "capture-input"); err != nil {
		return err
	}

	terms, err := inputnormalizer.Normalize(s.request.Mode, raw)
	if err != nil {
		code := errors.CodeOf(err)
		metrics.ValidationFailures.WithLabelValues(string(code)).Inc()
		s.logger.Info("Search input rejected", map[string]interface{}{"code": code})
		return err
	}

	s.request.Terms = terms
	s.transition(StepSelectingJurisdictions)
	return nil
}

// ToggleJurisdiction flips one jurisdiction. Unknown ids are ignored.
func (s *Session) ToggleJurisdiction(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(StepSelectingJurisdictions, "toggle-jurisdiction"); err != nil {
		return err
	}
	s.filters.Toggle(id)
	return nil
}

// Submit hands the finalized request to the bridge and waits for its outcome.
//
// From SelectingJurisdictions the request is finalized with the current
// selection. From Failed the previously finalized request is sent again
// unchanged. While a submission is in flight a second call returns
// ALREADY_SUBMITTING. If the session is abandoned before the bridge answers,
// the answer is dropped and SESSION_ABANDONED is returned.
func (s *Session) Submit(ctx context.Context) (*resolutionbridge.EngineResponse, error) {
	s.mu.Lock()
	if s.abandoned {
		s.mu.Unlock()
		return nil, errors.NewSessionAbandonedError(s.id)
	}

	switch s.step {
	case StepSubmitting:
		s.mu.Unlock()
		return nil, errors.NewAlreadySubmittingError(s.id)
	case StepSelectingJurisdictions:
		s.request.Jurisdictions = s.filters.SelectedIDs()
	case StepFailed:
		s.logger.Info("Retrying submission", map[string]interface{}{"previousCode": errors.CodeOf(s.lastError)})
	default:
		err := errors.NewInvalidTransitionError(string(s.step), "submit")
		s.mu.Unlock()
		return nil, err
	}

	s.lastError = nil
	s.attempts++
	attempt := s.attempts
	req := s.request.Clone()
	s.transition(StepSubmitting)
	s.mu.Unlock()

	metrics.SubmissionsInFlight.Inc()
	start := time.Now()
	resp, err := s.bridge.Submit(ctx, req)
	elapsed := time.Since(start)
	metrics.SubmissionsInFlight.Dec()
	metrics.SubmissionDuration.WithLabelValues(string(req.Mode)).Observe(elapsed.Seconds())

	s.mu.Lock()
	if s.abandoned {
		s.mu.Unlock()
		s.logger.Info("Dropping engine answer for abandoned session", map[string]interface{}{"attempt": attempt})
		s.audit(ctx, req, attempt, "abandoned", err, elapsed)
		return nil, errors.NewSessionAbandonedError(s.id)
	}

	status := "completed"
	if err != nil {
		status = "failed"
		s.lastError = err
		s.transition(StepFailed)
	} else {
		s.response = resp
		s.transition(StepCompleted)
	}
	s.mu.Unlock()

	metrics.SubmissionsTotal.WithLabelValues(string(req.Mode), status).Inc()
	s.audit(ctx, req, attempt, status, err, elapsed)

	if err != nil {
		fields := map[string]interface{}{"attempt": attempt, "code": errors.CodeOf(err)}
		if errors.IsDefect(errors.CodeOf(err)) {
			s.logger.Error("Submission failed on an invalid request", fields)
		} else {
			s.logger.Warn("Submission failed", fields)
		}
		return nil, err
	}
	return resp, nil
}

// Abandon discards the session. Any later call, including a late bridge
// answer, gets SESSION_ABANDONED.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abandoned {
		return
	}
	s.abandoned = true
	s.lastError = nil
	s.logger.Info("Search session abandoned", map[string]interface{}{"step": s.step})
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Request returns a copy of the request as built so far.
func (s *Session) Request() models.SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request.Clone()
}

// LastError is non-nil only while the session is Failed.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Response is the engine acknowledgement once Completed.
func (s *Session) Response() *resolutionbridge.EngineResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response
}

// Jurisdictions returns the sorted catalog with current selections.
func (s *Session) Jurisdictions() []models.JurisdictionOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.View()
}

// LookupJurisdiction resolves a label to its id, ignoring case.
func (s *Session) LookupJurisdiction(label string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Lookup(label)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.id,
		Step:      s.step,
		Request:   s.request.Clone(),
		LastError: s.lastError,
		Attempts:  s.attempts,
		Abandoned: s.abandoned,
		CreatedAt: s.createdAt,
	}
}

// guard must be called with mu held.
func (s *Session) guard(want Step, action string) error {
	if s.abandoned {
		return errors.NewSessionAbandonedError(s.id)
	}
	if s.step != want {
		return errors.NewInvalidTransitionError(string(s.step), action)
	}
	return nil
}

// transition must be called with mu held.
func (s *Session) transition(to Step) {
	from := s.step
	s.step = to
	metrics.SessionTransitions.WithLabelValues(string(from), string(to)).Inc()
	s.logger.Debug("Session step changed", map[string]interface{}{"from": from, "to": to})
}

func (s *Session) audit(ctx context.Context, req models.SearchRequest, attempt int, status string, err error, elapsed time.Duration) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	outcome := submissionaudit.Outcome{
		SessionID:     s.id,
		Attempt:       attempt,
		Mode:          string(req.Mode),
		TermCount:     len(req.Terms),
		Jurisdictions: req.Jurisdictions,
		Status:        status,
		ErrorCode:     string(errors.CodeOf(err)),
		DurationMs:    elapsed.Milliseconds(),
	}
	if recErr := s.recorder.Record(ctx, outcome); recErr != nil {
		s.logger.Warn("Failed to record submission outcome", map[string]interface{}{
			"attempt": attempt,
			"error":   recErr.Error(),
		})
	}
}
