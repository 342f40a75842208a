package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoirala/nepse-agent/internal/workflow"
)

// The session must satisfy the workflow driver surface.
var _ workflow.Driver = (*Session)(nil)

// Chrome launches lazily on the first action, so session lifecycle can be
// exercised without a browser installed.

func TestSessionsAreIsolated(t *testing.T) {
	e := NewEngine(context.Background(), true)
	defer func() { _ = e.Close() }()

	a := e.NewSession()
	b := e.NewSession()
	defer func() { _ = a.Close() }()
	defer func() { _ = b.Close() }()

	require.NotNil(t, a.ctx)
	require.NotNil(t, b.ctx)
	assert.NotEqual(t, a.ctx, b.ctx)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	e := NewEngine(context.Background(), true)
	defer func() { _ = e.Close() }()

	s := e.NewSession()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Error(t, s.ctx.Err(), "closing cancels the browser context")
}

func TestEngineCloseTearsDownSessions(t *testing.T) {
	e := NewEngine(context.Background(), true)
	s := e.NewSession()

	require.NoError(t, e.Close())
	assert.Error(t, s.ctx.Err())
}

func TestRootCancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := NewEngine(ctx, true)
	s := e.NewSession()

	cancel()
	assert.Error(t, s.ctx.Err())
}
