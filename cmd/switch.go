package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xsch1zo/celeris/internal/sessions"
)

var switchCmd = &cobra.Command{
	Use:   "switch [name]",
	Short: "Switch to a session, starting it from its layout when needed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetBool("last-session")
		if last == (len(args) == 1) {
			return fmt.Errorf("provide either a session name or --last-session")
		}

		manager, closeStore, err := setup()
		if err != nil {
			return err
		}
		defer closeStore()

		if last {
			err = manager.SwitchLast()
		} else {
			err = manager.Switch(args[0])
		}
		if errors.Is(err, sessions.ErrAlreadyActive) {
			fmt.Println("info: session is already attached, aborting switch")
			return nil
		}
		return err
	},
}

func init() {
	switchCmd.Flags().BoolP("last-session", "l", false, "Switch to the session you came from")
	rootCmd.AddCommand(switchCmd)
}
