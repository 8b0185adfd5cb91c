package script

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// ErrExecutorClosed is returned when attempting to use a closed executor.
var ErrExecutorClosed = errors.New("script executor is closed")

// call is one queued Lua operation. result receives exactly one error
// and is then closed.
type call struct {
	fn     func(L *lua.LState) error
	result chan error
}

// Executor serializes all Lua operations through a single goroutine.
// gopher-lua's LState must only ever be touched from one goroutine;
// the executor marshals work from the dispatcher and other callers
// onto the goroutine running Run.
type Executor struct {
	L     *lua.LState
	queue chan *call
	done  chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewExecutor creates an executor for the given state. queueSize <= 0
// uses a default.
func NewExecutor(L *lua.LState, queueSize int) *Executor {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Executor{
		L:     L,
		queue: make(chan *call, queueSize),
		done:  make(chan struct{}),
	}
}

// Run processes queued operations until the context is cancelled or
// Close is called. It must run on the goroutine that owns the state.
func (e *Executor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.drain(ctx.Err())
			return
		case <-e.done:
			e.drain(ErrExecutorClosed)
			return
		case c := <-e.queue:
			e.complete(c, e.protect(c))
		}
	}
}

// protect runs one operation, converting a Lua panic into an error.
func (e *Executor) protect(c *call) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = v
			case string:
				err = errors.New(v)
			default:
				err = errors.New("lua panic")
			}
		}
	}()
	return c.fn(e.L)
}

func (e *Executor) complete(c *call, err error) {
	select {
	case c.result <- err:
	default:
	}
	close(c.result)
}

func (e *Executor) drain(err error) {
	for {
		select {
		case c := <-e.queue:
			e.complete(c, err)
		default:
			return
		}
	}
}

// Execute runs an operation on the executor goroutine and waits for
// its result.
func (e *Executor) Execute(ctx context.Context, fn func(L *lua.LState) error) error {
	if e.closed.Load() {
		return ErrExecutorClosed
	}

	c := &call{fn: fn, result: make(chan error, 1)}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrExecutorClosed
	case e.queue <- c:
	}

	select {
	case <-ctx.Done():
		// The call stays queued and will still run; we stop waiting.
		return ctx.Err()
	case err, ok := <-c.result:
		if !ok {
			return ErrExecutorClosed
		}
		return err
	}
}

// Close stops the executor. Queued operations complete with
// ErrExecutorClosed.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)
	})
}
