// Package reqctx carries per-run identity through a context.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const runKey key = 0

// RunContext identifies one harvest run
type RunContext struct {
	RunID     string
	StartTime time.Time
}

// WithRunContext attaches a fresh RunContext to ctx unless one is already present
func WithRunContext(ctx context.Context) context.Context {
	if _, ok := ctx.Value(runKey).(*RunContext); ok {
		return ctx
	}
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     generateID(),
		StartTime: time.Now(),
	})
}

// GetRunContext returns the RunContext stored in ctx, or a placeholder
func GetRunContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns the global logger tagged with the run id of ctx
func Logger(ctx context.Context) zerolog.Logger {
	return log.With().Str("run_id", GetRunContext(ctx).RunID).Logger()
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// RunError wraps an error that ended a run
type RunError struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *RunError) Error() string {
	return fmt.Sprintf("[run %s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError wraps err with the run id found in ctx
func NewRunError(ctx context.Context, err error) error {
	return &RunError{
		RunID: GetRunContext(ctx).RunID,
		Err:   err,
	}
}
