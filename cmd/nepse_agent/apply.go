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
	"github.com/skoirala/nepse-agent/internal/types"
	"github.com/skoirala/nepse-agent/internal/workflow"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply for the open IPO issue as one member",
	Long:  "Runs the full application workflow for a single stored member: login, issue selection, form fill, and final submission with confirmation.",
	RunE:  runApply,
}

var (
	applyMember  string
	applyIssue   string
	applyVisible bool
)

func init() {
	applyCmd.Flags().StringVarP(&applyMember, "member", "m", "", "Stored member name (required)")
	applyCmd.Flags().StringVar(&applyIssue, "issue", "", "Company name fragment to target a specific issue")
	applyCmd.Flags().BoolVar(&applyVisible, "visible", false, "Run Chrome with a visible window")

	if err := applyCmd.MarkFlagRequired("member"); err != nil {
		panic(fmt.Sprintf("failed to mark member flag as required: %v", err))
	}

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyVisibility(cmd, settings, applyVisible)
	log := logger.NewStructured(settings.LogLevel, settings.LogFormat)

	st, err := store.Open()
	if err != nil {
		return err
	}
	member, err := st.Get(applyMember)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	engine := browser.NewEngine(ctx, settings.Headless)
	defer engine.Close()

	runner := &orchestrator.WorkflowRunner{
		Engine:   engine,
		Portal:   &workflow.Portal{BaseURL: settings.PortalURL, Issue: applyIssue},
		Settings: settings,
		Reporter: report.NewConsoleReporter(os.Stdout),
		Log:      log,
	}

	rep := orchestrator.RunSequential(ctx, runner, []types.MemberRecord{member})
	fmt.Print(report.RenderOutcomes(rep.Outcomes))

	if !rep.AllSucceeded() {
		return fmt.Errorf("application did not complete for %s", member.Name)
	}
	return nil
}
