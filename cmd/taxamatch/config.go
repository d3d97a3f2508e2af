package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/config"
	"github.com/wildlabs/taxamatch/internal/home"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with default settings to the taxamatch home
directory (or wherever --config points).

The generated file enables the gemini provider with the API key read
from ${GEMINI_API_KEY}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			if h.ConfigExists() && !configForce {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", h.ConfigPath())
			}
			path = h.ConfigPath()
		} else if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}

		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
