package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new-session <path>",
	Short: "Create a session layout and open it in your editor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeStore, err := setup()
		if err != nil {
			return err
		}
		defer closeStore()

		customName, _ := cmd.Flags().GetString("name")
		name, err := manager.Create(args[0], customName)
		if err != nil {
			return err
		}

		if err := manager.Edit(name); err != nil {
			return err
		}
		fmt.Println(name)
		return nil
	},
}

func init() {
	newCmd.Flags().StringP("name", "n", "", "Custom session name instead of deducing one from the path")
	rootCmd.AddCommand(newCmd)
}
