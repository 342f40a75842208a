package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/browser"
	"github.com/skoirala/nepse-agent/internal/logger"
	"github.com/skoirala/nepse-agent/internal/orchestrator"
	"github.com/skoirala/nepse-agent/internal/report"
	"github.com/skoirala/nepse-agent/internal/store"
	"github.com/skoirala/nepse-agent/internal/workflow"
)

var applyAllCmd = &cobra.Command{
	Use:   "apply-all",
	Short: "Apply for the open IPO issue as every stored member",
	Long:  "Runs the application workflow for all stored members, concurrently by default with one browser session each. A failed member never blocks the rest.",
	RunE:  runApplyAll,
}

var (
	applyAllIssue      string
	applyAllVisible    bool
	applyAllSequential bool
)

func init() {
	applyAllCmd.Flags().StringVar(&applyAllIssue, "issue", "", "Company name fragment to target a specific issue")
	applyAllCmd.Flags().BoolVar(&applyAllVisible, "visible", false, "Run Chrome with a visible window")
	applyAllCmd.Flags().BoolVar(&applyAllSequential, "sequential", false, "Run members one at a time instead of concurrently")

	rootCmd.AddCommand(applyAllCmd)
}

func runApplyAll(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyVisibility(cmd, settings, applyAllVisible)
	log := logger.NewStructured(settings.LogLevel, settings.LogFormat)

	st, err := store.Open()
	if err != nil {
		return err
	}
	members, err := st.List()
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return fmt.Errorf("no members stored; add one with 'nepse_agent members add' first")
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	engine := browser.NewEngine(ctx, settings.Headless)
	defer engine.Close()

	runner := &orchestrator.WorkflowRunner{
		Engine:   engine,
		Portal:   &workflow.Portal{BaseURL: settings.PortalURL, Issue: applyAllIssue},
		Settings: settings,
		Reporter: report.NewConsoleReporter(os.Stdout),
		Log:      log,
	}

	var rep orchestrator.Report
	if applyAllSequential {
		rep = orchestrator.RunSequential(ctx, runner, members)
	} else {
		rep = orchestrator.RunConcurrent(ctx, runner, members)
	}
	fmt.Print(report.RenderOutcomes(rep.Outcomes))

	if !rep.AllSucceeded() {
		return fmt.Errorf("one or more applications did not complete")
	}
	return nil
}
