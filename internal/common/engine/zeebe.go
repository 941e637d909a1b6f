package engine

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ProcessStarter is satisfied by *camunda.Client.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}, awaitResult bool) (json.RawMessage, error)
	Close() error
}

// ZeebeInvoker maps each command onto a BPMN process id and starts an
// instance of it with the payload as process variables.
type ZeebeInvoker struct {
	starter     ProcessStarter
	awaitResult bool
}

func NewZeebeInvoker(starter ProcessStarter, awaitResult bool) *ZeebeInvoker {
	return &ZeebeInvoker{starter: starter, awaitResult: awaitResult}
}

func (z *ZeebeInvoker) Invoke(ctx context.Context, command string, payload interface{}) (json.RawMessage, error) {
	ack, err := z.starter.StartProcess(ctx, command, payload, z.awaitResult)
	if err != nil {
		return nil, classifyGRPC(command, err)
	}
	return ack, nil
}

func (z *ZeebeInvoker) Close() error {
	return z.starter.Close()
}

// classifyGRPC treats transport-level status codes as unreachable and any
// other gateway answer as a rejection carrying the gateway's message.
func classifyGRPC(command string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return unreachable(command, err)
	}

	st, ok := status.FromError(err)
	if !ok {
		return unreachable(command, err)
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.Unknown:
		return unreachable(command, err)
	default:
		return rejected(command, st.Message())
	}
}
