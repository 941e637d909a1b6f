package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInvoker struct {
	closed bool
}

func (s *stubInvoker) Invoke(context.Context, string, interface{}) (json.RawMessage, error) {
	return json.RawMessage(`{"ok":true}`), nil
}

func (s *stubInvoker) Close() error {
	s.closed = true
	return nil
}

func TestLazyInvoker_ConnectFailureIsUnreachableAndRetried(t *testing.T) {
	attempts := 0
	stub := &stubInvoker{}
	lazy := NewLazyInvoker(func() (Invoker, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("gateway down")
		}
		return stub, nil
	})

	_, err := lazy.Invoke(context.Background(), "set_search_input", nil)
	assert.ErrorIs(t, err, ErrUnreachable)

	ack, err := lazy.Invoke(context.Background(), "set_search_input", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(ack))

	_, err = lazy.Invoke(context.Background(), "set_search_input", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	require.NoError(t, lazy.Close())
	assert.True(t, stub.closed)
}

func TestLazyInvoker_CloseBeforeConnect(t *testing.T) {
	lazy := NewLazyInvoker(func() (Invoker, error) { return nil, errors.New("never") })
	assert.NoError(t, lazy.Close())
}
