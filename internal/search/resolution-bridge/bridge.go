// Package resolutionbridge is the single path by which a finalized search
// request reaches the external resolution engine.
package resolutionbridge

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"records-search/internal/common/engine"
	"records-search/internal/common/errors"
	"records-search/internal/common/logger"
	"records-search/internal/common/observability"
	"records-search/internal/common/validation"
	"records-search/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var schema = validation.MustCompileSchema(payloadSchema)

// Bridge submits search requests through an engine.Invoker. It never retries.
type Bridge struct {
	invoker engine.Invoker
	command string
	logger  logger.Logger
	obs     *observability.Observability
	tracer  trace.Tracer
}

// NewBridge uses CommandSetSearchInput when command is empty. obs may be nil.
func NewBridge(invoker engine.Invoker, command string, log logger.Logger, obs *observability.Observability) *Bridge {
	if command == "" {
		command = CommandSetSearchInput
	}
	return &Bridge{
		invoker: invoker,
		command: command,
		logger:  log.WithFields(map[string]interface{}{"component": "resolution-bridge", "command": command}),
		obs:     obs,
		tracer:  otel.Tracer("records-search/resolution-bridge"),
	}
}

// BuildPayload derives the wire payload from req.
func BuildPayload(req models.SearchRequest) Payload {
	p := Payload{
		SearchInput: append([]string{}, req.Terms...),
		SearchType:  string(req.Mode),
	}
	if len(req.Jurisdictions) > 0 {
		p.Jurisdictions = append([]int(nil), req.Jurisdictions...)
	}
	return p
}

// Submit sends req and returns the engine's acknowledgement.
func (b *Bridge) Submit(ctx context.Context, req models.SearchRequest) (*EngineResponse, error) {
	if len(req.Terms) == 0 {
		return nil, b.defect("request has no terms")
	}
	if !req.Mode.Valid() {
		return nil, b.defect("request has unknown mode " + string(req.Mode))
	}

	payload := BuildPayload(req)
	result, err := schema.Validate(payload)
	if err != nil {
		return nil, b.defect(err.Error())
	}
	if !result.Valid {
		return nil, b.defect(result.Summary())
	}

	return b.invoke(ctx, b.command, payload, trace.WithAttributes(
		attribute.String("search.type", payload.SearchType),
		attribute.Int("search.terms", len(payload.SearchInput)),
		attribute.Int("search.jurisdictions", len(payload.Jurisdictions)),
	))
}

// Trigger sends a payload-less command, such as the scraper script start,
// with the same failure classification as Submit.
func (b *Bridge) Trigger(ctx context.Context, command string) (*EngineResponse, error) {
	return b.invoke(ctx, command, struct{}{})
}

func (b *Bridge) invoke(ctx context.Context, command string, payload interface{}, opts ...trace.SpanStartOption) (*EngineResponse, error) {
	ctx, span := b.tracer.Start(ctx, "engine."+command, opts...)
	defer span.End()

	log := b.logger.WithFields(map[string]interface{}{"command": command})
	log.Debug("Invoking resolution engine", nil)

	start := time.Now()
	ack, err := b.invoker.Invoke(ctx, command, payload)
	elapsed := time.Since(start)

	if err != nil {
		bridgeErr := Classify(command, err)
		b.obs.RecordEngineCall(ctx, command, outcomeOf(bridgeErr), elapsed)
		span.RecordError(bridgeErr)
		span.SetStatus(codes.Error, string(errors.CodeOf(bridgeErr)))
		log.Warn("Resolution engine call failed", map[string]interface{}{
			"code":       errors.CodeOf(bridgeErr),
			"error":      err.Error(),
			"durationMs": elapsed.Milliseconds(),
		})
		return nil, bridgeErr
	}

	if !json.Valid(ack) {
		bridgeErr := errors.NewEngineResponseMalformedError(command, stderrors.New("acknowledgement is not valid JSON"))
		b.obs.RecordEngineCall(ctx, command, outcomeOf(bridgeErr), elapsed)
		span.SetStatus(codes.Error, string(bridgeErr.Code))
		log.Warn("Resolution engine returned an unreadable acknowledgement", map[string]interface{}{
			"ackBytes": len(ack),
		})
		return nil, bridgeErr
	}

	b.obs.RecordEngineCall(ctx, command, "ok", elapsed)
	span.SetStatus(codes.Ok, "")
	log.Info("Resolution engine accepted command", map[string]interface{}{"durationMs": elapsed.Milliseconds()})

	return &EngineResponse{Command: command, Ack: ack, Duration: elapsed}, nil
}

// Classify maps an invoker error onto the bridge taxonomy. Anything that is
// not an explicit engine rejection counts as unreachable.
func Classify(command string, err error) *errors.StandardError {
	var rejected *engine.RejectedError
	if stderrors.As(err, &rejected) {
		return errors.NewEngineRejectedError(command, rejected.Message)
	}
	return errors.NewEngineUnreachableError(command, err)
}

func (b *Bridge) defect(details string) error {
	err := errors.NewInvalidRequestError(details)
	b.logger.Error("Refusing to submit invalid search request", map[string]interface{}{
		"code":    err.Code,
		"details": details,
		"defect":  true,
	})
	return err
}

func outcomeOf(err *errors.StandardError) string {
	switch err.Code {
	case errors.ErrCodeEngineRejected:
		return "rejected"
	case errors.ErrCodeEngineResponseMalformed:
		return "malformed"
	default:
		return "unreachable"
	}
}
