package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/homemenu/internal/menu"
	"github.com/battlewithbytes/homemenu/internal/platform"
	"github.com/battlewithbytes/homemenu/internal/ui"
)

var (
	appType    uint8
	appName    string
	appAuthor  string
	appVersion string
	appNoEntry bool
)

func init() {
	appAddCmd.Flags().Uint8Var(&appType, "type", 1, "application record type")
	appAddCmd.Flags().StringVar(&appName, "name", "", "title name")
	appAddCmd.Flags().StringVar(&appAuthor, "author", "", "title author")
	appAddCmd.Flags().StringVar(&appVersion, "display-version", "", "display version")
	appAddCmd.Flags().BoolVar(&appNoEntry, "no-entry", false, "register in the registry only")

	appCmd.AddCommand(appAddCmd, appRmCmd, appListCmd)
	rootCmd.AddCommand(appCmd)
}

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Manage installed applications",
}

var appAddCmd = &cobra.Command{
	Use:   "add <application-id>",
	Short: "Install an application and append it to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := menu.ParseApplicationID(args[0])
		if err != nil {
			return err
		}
		return withSession(func(s *session) error {
			rec := platform.ApplicationRecord{ID: id, Type: appType}
			if err := s.store.PutApplication(rec); err != nil {
				return fmt.Errorf("registering application: %w", err)
			}
			if appName != "" {
				meta := &platform.ControlMetadata{
					PreferredLanguage: platform.NoPreferredLanguage,
					DisplayVersion:    appVersion,
				}
				meta.Titles[0] = platform.Title{Name: appName, Author: appAuthor}
				if err := s.store.SetControlMetadata(id, meta); err != nil {
					return fmt.Errorf("storing control metadata: %w", err)
				}
			}
			if appNoEntry {
				fmt.Println(ui.Check(fmt.Sprintf("Registered %016X", id)))
				return nil
			}

			if err := s.cat.Refresh(); err != nil {
				return err
			}
			e, err := s.cat.RegisterApplicationEntry(rec)
			if err != nil {
				return err
			}
			fmt.Println(ui.Check(fmt.Sprintf("Installed %016X at index %d", id, e.Index)))
			return nil
		})
	},
}

var appRmCmd = &cobra.Command{
	Use:   "rm <application-id>",
	Short: "Uninstall an application and remove its catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := menu.ParseApplicationID(args[0])
		if err != nil {
			return err
		}
		return withSession(func(s *session) error {
			if err := s.store.DeleteApplication(id); err != nil {
				return fmt.Errorf("unregistering %016X: %w", id, err)
			}
			found, err := s.cat.FindAndRemoveApplicationEntry(id, s.cat.Root())
			if err != nil {
				return err
			}
			if !found {
				fmt.Println(ui.Warn(fmt.Sprintf("%016X had no catalog entry", id)))
			}
			fmt.Println(ui.Check(fmt.Sprintf("Uninstalled %016X", id)))
			return nil
		})
	},
}

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			recs, err := s.store.ListApplicationRecords()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println(ui.Dim.Render("No applications installed."))
				return nil
			}
			for _, rec := range recs {
				line := ui.Cyan.Render(fmt.Sprintf("%016X", rec.ID))
				if meta, err := s.store.GetApplicationControlMetadata(rec.ID); err == nil {
					if title, ok := meta.Title(); ok {
						line += "  " + ui.White.Render(title.Name) + ui.Dim.Render("  "+title.Author)
					}
					if meta.DisplayVersion != "" {
						line += ui.Dim.Render(" v" + meta.DisplayVersion)
					}
				}
				fmt.Println(line)
			}
			return nil
		})
	},
}
