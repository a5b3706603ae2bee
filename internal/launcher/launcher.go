package launcher

import (
	"context"
	"os"

	"github.com/ljytool/ljytool/internal/logging"
	"github.com/ljytool/ljytool/internal/sink"
)

// Locker guards a sink shared with other processes.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock() error
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithLock makes every Run hold lk for the whole launch, so launches from
// other processes writing the same destination wait their turn too.
func WithLock(lk Locker) Option {
	return func(l *Launcher) {
		l.lock = lk
	}
}

// Launcher runs scripts into one shared sink, one launch at a time. A
// second Run waits until the first launch has written its exit line, so
// output from different launches never interleaves.
type Launcher struct {
	sink sink.Sink
	turn chan struct{}
	lock Locker
}

// New creates a Launcher writing to s.
func New(s sink.Sink, opts ...Option) *Launcher {
	l := &Launcher{
		sink: s,
		turn: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run waits for any earlier launch to finish, starts req and blocks until it
// terminates. ctx only bounds the wait for a turn (and for the Locker, when
// set); a started script always runs to completion.
//
// If req.Env is nil the current environment is used, extended with the
// script's .env file when present.
func (l *Launcher) Run(ctx context.Context, req Request) (Result, error) {
	select {
	case l.turn <- struct{}{}:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	defer func() { <-l.turn }()

	if l.lock != nil {
		if err := l.lock.Lock(ctx); err != nil {
			return Result{}, err
		}
		defer func() {
			if err := l.lock.Unlock(); err != nil {
				logging.Warn().Err(err).Msg("releasing output lock")
			}
		}()
	}

	if req.Env == nil && req.ScriptPath != "" {
		env, err := ScriptEnv(req.ScriptPath, os.Environ())
		if err != nil {
			return Result{}, err
		}
		req.Env = env
	}

	launch, err := Start(req, l.sink)
	if err != nil {
		logging.Debug().Err(err).Str("script", req.ScriptPath).Msg("launch rejected")
		return Result{}, err
	}
	return launch.Wait(), nil
}
