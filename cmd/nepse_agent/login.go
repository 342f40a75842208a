package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/browser"
	"github.com/skoirala/nepse-agent/internal/store"
	"github.com/skoirala/nepse-agent/internal/workflow"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify a member's Meroshare credentials",
	Long:  "Runs only the login step for one stored member and reports whether the portal accepted the credentials. Nothing is applied.",
	RunE:  runLogin,
}

var (
	loginMember  string
	loginVisible bool
)

func init() {
	loginCmd.Flags().StringVarP(&loginMember, "member", "m", "", "Stored member name (required)")
	loginCmd.Flags().BoolVar(&loginVisible, "visible", false, "Run Chrome with a visible window")

	if err := loginCmd.MarkFlagRequired("member"); err != nil {
		panic(fmt.Sprintf("failed to mark member flag as required: %v", err))
	}

	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyVisibility(cmd, settings, loginVisible)

	st, err := store.Open()
	if err != nil {
		return err
	}
	member, err := st.Get(loginMember)
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
	stageCtx, cancel := context.WithTimeout(ctx, settings.StageTimeout)
	defer cancel()

	res := portal.Login(stageCtx, session, member)
	if res.Status == workflow.StageOK {
		fmt.Printf("Credentials for %s accepted.\n", member.Name)
		return nil
	}

	var auth *workflow.AuthenticationError
	if errors.As(res.Err, &auth) {
		return fmt.Errorf("portal rejected credentials for %s: %s", auth.Member, auth.Message)
	}
	return fmt.Errorf("login check failed: %w", res.Err)
}
