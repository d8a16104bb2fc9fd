package cmd

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove-session <name>",
	Short: "Remove a session layout and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeStore, err := setup()
		if err != nil {
			return err
		}
		defer closeStore()

		return manager.Remove(args[0])
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
