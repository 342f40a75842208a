package orchestrator

import (
	"context"

	"github.com/skoirala/nepse-agent/internal/browser"
	"github.com/skoirala/nepse-agent/internal/config"
	"github.com/skoirala/nepse-agent/internal/logger"
	"github.com/skoirala/nepse-agent/internal/types"
	"github.com/skoirala/nepse-agent/internal/workflow"
)

// WorkflowRunner is the production Runner: one browser session per member,
// driven through the portal stages.
type WorkflowRunner struct {
	Engine   *browser.Engine
	Portal   *workflow.Portal
	Settings *config.Settings
	Reporter workflow.Reporter
	Log      logger.Logger
}

// Run opens a session, drives the member through every stage, and returns
// the terminal outcome. The workflow closes the session on every path.
func (r *WorkflowRunner) Run(ctx context.Context, m types.MemberRecord) types.WorkflowOutcome {
	session := r.Engine.NewSession()

	w := workflow.New(workflow.Options{
		Stages:       r.Portal.Stages(),
		Reporter:     r.Reporter,
		Log:          r.Log,
		StageTimeout: r.Settings.StageTimeout,
		RetryBound:   r.Settings.RetryBound,
		RetryBackoff: r.Settings.RetryBackoff,
	})
	return w.Run(ctx, session, session, m)
}
