package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tavolo/tavolo/config"
	"github.com/tavolo/tavolo/internal/devserver"
	"github.com/tavolo/tavolo/pkg/store"
)

// tavolo theme [light|dark]
var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Show or set the persisted display theme",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := boot(); err != nil {
			return err
		}

		if len(args) == 0 {
			theme := "light"
			store.Get(store.KeyTheme, &theme)
			fmt.Println(theme)
			return nil
		}

		if args[0] != "light" && args[0] != "dark" {
			return fmt.Errorf("theme must be light or dark, got %q", args[0])
		}
		if err := store.Set(store.KeyTheme, args[0]); err != nil {
			return err
		}
		fmt.Printf("Theme set to %s.\n", args[0])
		return nil
	},
}

// tavolo dev:server
var devServerCmd = &cobra.Command{
	Use:   "dev:server",
	Short: "Run the bundled in-memory backend",
	Long:  "Runs an in-memory implementation of the ordering API for local development. State resets on restart; accounts for every role are pre-seeded (see the devserver package).",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		return devserver.New().Start(cmd.Context(), config.DevServerAddr())
	},
}
