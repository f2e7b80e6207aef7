package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/homemenu/internal/config"
	"github.com/battlewithbytes/homemenu/internal/fsutil"
	"github.com/battlewithbytes/homemenu/internal/ui"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and create the homemenu configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		legacy := cfg.Menu.LegacyRoot
		if legacy == "" {
			legacy = "(migration disabled)"
		}

		fmt.Println(ui.Cyan.Render("Menu:"))
		fmt.Println("  " + ui.Field("Root", cfg.Menu.Root))
		fmt.Println("  " + ui.Field("Legacy root", legacy))
		fmt.Println()
		fmt.Println("  " + ui.Field("Cache", cfg.Cache.Dir))
		fmt.Println("  " + ui.Field("Registry", cfg.Registry.DBPath))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Shortcuts:"))
		fmt.Println("  " + ui.Field("Homebrew menu", cfg.Shortcuts.HomebrewMenu))
		fmt.Println("  " + ui.Field("Manager", cfg.Shortcuts.Manager))
		fmt.Println()
		fmt.Println("  " + ui.Field("Log", cfg.Log.Level+" ("+cfg.Log.Format+")"))
		fmt.Println()

		src := configPath
		if !fsutil.FileExists(configPath) {
			src += " (not found, using defaults)"
		}
		fmt.Println(ui.Dim.Render("Config file: " + src))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if fsutil.Exists(configPath) && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if err := config.Default().Save(configPath); err != nil {
			return err
		}
		fmt.Println(ui.Check("Wrote " + ui.White.Render(configPath)))
		return nil
	},
}
