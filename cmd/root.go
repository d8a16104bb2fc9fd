package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/0xsch1zo/celeris/internal/sessions"
	"github.com/0xsch1zo/celeris/internal/tui"
)

var (
	configDirFlag string
	cacheDirFlag  string
)

func SetVersionInfo(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
}

var rootCmd = &cobra.Command{
	Use:   "celeris",
	Short: "A git-aware tmux session manager",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeStore, err := setup()
		if err != nil {
			return err
		}
		defer closeStore()

		load := func() ([]tui.Item, error) {
			infos, err := manager.Sessions()
			if err != nil {
				return nil, err
			}
			items := make([]tui.Item, len(infos))
			for i, info := range infos {
				items[i] = tui.Item{
					Name:       info.Name,
					Running:    info.Running,
					Active:     info.Active,
					LastOpened: info.LastOpened,
				}
			}
			return items, nil
		}

		for {
			p := tea.NewProgram(tui.NewModel(load), tea.WithAltScreen())
			finalModel, err := p.Run()
			if err != nil {
				return fmt.Errorf("picker error: %w", err)
			}

			final := finalModel.(tui.Model)
			if final.Choice == "" {
				return nil
			}

			// returns when the client detaches, then the picker restarts
			if err := manager.Switch(final.Choice); err != nil {
				if errors.Is(err, sessions.ErrAlreadyActive) {
					fmt.Println("info: session is already attached")
					continue
				}
				return err
			}
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Override the config directory")
	rootCmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "", "Override the cache directory")
}
