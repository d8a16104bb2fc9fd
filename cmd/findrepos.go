package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xsch1zo/celeris/internal/repos"
)

var findReposCmd = &cobra.Command{
	Use:   "find-repos",
	Short: "Find git repositories under the configured search roots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.SearchRoots) == 0 {
			fmt.Fprintln(os.Stderr, "warning: search roots are not defined, nothing to search in")
			return nil
		}

		found, err := repos.Search(cfg)
		if err != nil {
			return err
		}

		names, _ := cmd.Flags().GetBool("names")
		if names {
			for _, repo := range repos.Dedup(found) {
				fmt.Printf("%s\t%s\n", repo.Name, repo.Path)
			}
			return nil
		}
		for _, repo := range found {
			fmt.Println(repo)
		}
		return nil
	},
}

func init() {
	findReposCmd.Flags().BoolP("names", "n", false, "Print a deduplicated session name next to each path")
	rootCmd.AddCommand(findReposCmd)
}
