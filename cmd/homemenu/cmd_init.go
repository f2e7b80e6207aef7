package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/homemenu/internal/fsutil"
	"github.com/battlewithbytes/homemenu/internal/ui"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the catalog, migrating a legacy menu if present",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			legacy := s.cfg.Menu.LegacyRoot != "" && fsutil.DirExists(s.cfg.Menu.LegacyRoot)
			fresh := !fsutil.DirExists(s.cfg.Menu.Root)

			if err := s.cat.Initialize(); err != nil {
				return err
			}

			switch {
			case legacy:
				fmt.Println(ui.Check("Migrated legacy menu from " + ui.White.Render(s.cfg.Menu.LegacyRoot)))
			case fresh:
				fmt.Println(ui.Check("Created catalog at " + ui.White.Render(s.cfg.Menu.Root)))
			default:
				fmt.Println(ui.Dim.Render("Catalog already initialized at " + s.cfg.Menu.Root))
			}
			return nil
		})
	},
}
