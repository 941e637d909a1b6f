// Package engine carries commands to the external record-resolution engine
// over one of the supported transports.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Invoker sends one named command with a JSON-encodable payload and returns
// the engine's raw acknowledgement. Returned errors are classified with
// ErrUnreachable or *RejectedError; the ack itself is not interpreted.
type Invoker interface {
	Invoke(ctx context.Context, command string, payload interface{}) (json.RawMessage, error)
	Close() error
}

// ErrUnreachable marks failures where no response from the engine was obtained.
var ErrUnreachable = errors.New("engine unreachable")

// RejectedError is returned when the engine answered with an error.
type RejectedError struct {
	Command string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("engine rejected %s: %s", e.Command, e.Message)
}

func unreachable(command string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnreachable, command, err)
}

func rejected(command, message string) error {
	return &RejectedError{Command: command, Message: message}
}
