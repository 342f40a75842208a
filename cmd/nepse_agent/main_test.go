package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoirala/nepse-agent/internal/config"
)

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"apply", "apply-all", "login", "portfolio", "members",
		"ipo", "topgl", "indices", "subindex", "mktsum", "dplist",
	}
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, w := range want {
		assert.True(t, names[w], "command %s not registered", w)
	}
}

func TestMemberFromFlags(t *testing.T) {
	memberFlags.name = "Ram"
	memberFlags.dp = "13700"
	memberFlags.username = "01234567"
	memberFlags.password = "secret-pass"
	memberFlags.pin = "4321"
	memberFlags.kitta = 10
	memberFlags.crn = "02-R00123456"

	m := memberFromFlags()
	require.NoError(t, m.Validate())
	assert.Equal(t, "Ram", m.Name)
	assert.Equal(t, "13700", m.DPID)
	assert.Equal(t, 10, m.Kitta)
}

func TestApplyVisibility(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{Use: "x"}
		c.Flags().Bool("visible", false, "")
		return c
	}

	t.Run("flag unset keeps configured headless", func(t *testing.T) {
		settings := &config.Settings{Headless: true}
		applyVisibility(newCmd(), settings, false)
		assert.True(t, settings.Headless)
	})

	t.Run("flag set overrides headless", func(t *testing.T) {
		cmd := newCmd()
		require.NoError(t, cmd.Flags().Set("visible", "true"))
		settings := &config.Settings{Headless: true}
		applyVisibility(cmd, settings, true)
		assert.False(t, settings.Headless)
	})
}
