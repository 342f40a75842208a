package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/browser"
	"github.com/skoirala/nepse-agent/internal/report"
	"github.com/skoirala/nepse-agent/internal/store"
	"github.com/skoirala/nepse-agent/internal/workflow"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show a member's share holdings",
	Long:  "Logs in as one stored member and prints the portfolio table: scrip, balance, last price, and value as of the last traded price.",
	RunE:  runPortfolio,
}

var (
	portfolioMember  string
	portfolioVisible bool
)

func init() {
	portfolioCmd.Flags().StringVarP(&portfolioMember, "member", "m", "", "Stored member name (required)")
	portfolioCmd.Flags().BoolVar(&portfolioVisible, "visible", false, "Run Chrome with a visible window")

	if err := portfolioCmd.MarkFlagRequired("member"); err != nil {
		panic(fmt.Sprintf("failed to mark member flag as required: %v", err))
	}

	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyVisibility(cmd, settings, portfolioVisible)

	st, err := store.Open()
	if err != nil {
		return err
	}
	member, err := st.Get(portfolioMember)
	if err != nil {
		return err
	}
	if err := member.Validate(); err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	engine := browser.NewEngine(ctx, settings.Headless)
	defer engine.Close()

	session := engine.NewSession()
	defer func() { _ = session.Close() }()

	portal := &workflow.Portal{BaseURL: settings.PortalURL}

	loginCtx, cancel := context.WithTimeout(ctx, settings.StageTimeout)
	res := portal.Login(loginCtx, session, member)
	cancel()
	if res.Status != workflow.StageOK {
		return fmt.Errorf("login failed: %w", res.Err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, settings.StageTimeout)
	defer cancel()
	holdings, err := portal.FetchPortfolio(fetchCtx, session)
	if err != nil {
		return fmt.Errorf("reading portfolio: %w", err)
	}

	fmt.Print(report.RenderHoldings(member.Name, holdings))
	return nil
}
