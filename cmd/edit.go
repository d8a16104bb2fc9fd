package cmd

import (
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit-session <name>",
	Short: "Edit an existing session layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeStore, err := setup()
		if err != nil {
			return err
		}
		defer closeStore()

		return manager.Edit(args[0])
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
