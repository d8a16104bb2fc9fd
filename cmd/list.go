package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xsch1zo/celeris/internal/sessions"
)

var listCmd = &cobra.Command{
	Use:   "list-sessions",
	Short: "List configured and running sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeStore, err := setup()
		if err != nil {
			return err
		}
		defer closeStore()

		includeActive, _ := cmd.Flags().GetBool("include-active")
		excludeRunning, _ := cmd.Flags().GetBool("exclude-running")
		tmuxFormat, _ := cmd.Flags().GetBool("tmux-format")

		listed, err := manager.List(sessions.ListOptions{
			IncludeActive:  includeActive,
			ExcludeRunning: excludeRunning,
		})
		if err != nil {
			return err
		}

		separator := "\n"
		if tmuxFormat {
			separator = " "
		}
		fmt.Println(strings.Join(listed, separator))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolP("include-active", "i", false, "Include the session you are attached to")
	listCmd.Flags().BoolP("exclude-running", "e", false, "Only list sessions that are not running")
	listCmd.Flags().BoolP("tmux-format", "t", false, "Space-separate the names for tmux key bindings")
	rootCmd.AddCommand(listCmd)
}
