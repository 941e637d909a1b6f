package engine

import (
	"context"
	"encoding/json"
	"sync"
)

// LazyInvoker defers connecting to the engine until the first command and
// tries again on the next command if connecting failed.
type LazyInvoker struct {
	mu      sync.Mutex
	connect func() (Invoker, error)
	inner   Invoker
}

func NewLazyInvoker(connect func() (Invoker, error)) *LazyInvoker {
	return &LazyInvoker{connect: connect}
}

func (l *LazyInvoker) Invoke(ctx context.Context, command string, payload interface{}) (json.RawMessage, error) {
	inner, err := l.get()
	if err != nil {
		return nil, unreachable(command, err)
	}
	return inner.Invoke(ctx, command, payload)
}

func (l *LazyInvoker) get() (Invoker, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inner != nil {
		return l.inner, nil
	}
	inner, err := l.connect()
	if err != nil {
		return nil, err
	}
	l.inner = inner
	return inner, nil
}

func (l *LazyInvoker) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inner == nil {
		return nil
	}
	err := l.inner.Close()
	l.inner = nil
	return err
}
