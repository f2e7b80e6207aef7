package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/homemenu/internal/menu"
	"github.com/battlewithbytes/homemenu/internal/ui"
)

var lsRecursive bool

func init() {
	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "r", false, "list folder contents")
	rootCmd.AddCommand(lsCmd)
}

var lsCmd = &cobra.Command{
	Use:   "ls [folder]",
	Short: "List catalog entries",
	Long:  "List the entries of the root or of the folder at the given address, e.g. \"2/0\".",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var addr menu.Address
		if len(args) == 1 {
			var err error
			if addr, err = menu.ParseAddress(args[0]); err != nil {
				return err
			}
		}
		return withSession(func(s *session) error {
			dir, err := s.cat.Dir(addr)
			if err != nil {
				return err
			}
			return listDir(s.cat, dir, addr, 0)
		})
	},
}

func listDir(cat *menu.Catalog, dir string, addr menu.Address, depth int) error {
	entries, err := cat.LoadEntries(dir)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	for i := range entries {
		e := &entries[i]
		here := append(append(menu.Address(nil), addr...), e.Index)
		fmt.Println(indent + ui.Dim.Render(fmt.Sprintf("%-8s", here)) + ui.Badge(e.Type.String()) + describe(e))

		if lsRecursive && e.Is(menu.EntryFolder) {
			if err := listDir(cat, e.FolderPath(), here, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func describe(e *menu.Entry) string {
	switch e.Type {
	case menu.EntryFolder:
		return ui.Cyan.Render(e.Folder.Name + "/")
	case menu.EntryApplication:
		name := e.DisplayName()
		if name == "" {
			name = fmt.Sprintf("%016X", e.Application.ID)
		}
		return ui.White.Render(name) + details(e)
	case menu.EntryHomebrew:
		name := e.DisplayName()
		if name == "" {
			name = e.Homebrew.Path
		}
		return ui.White.Render(name) + details(e)
	}
	return ""
}

func details(e *menu.Entry) string {
	var parts []string
	if e.Control.Author != "" {
		parts = append(parts, e.Control.Author)
	}
	if e.Control.Version != "" {
		parts = append(parts, "v"+e.Control.Version)
	}
	if len(parts) == 0 {
		return ""
	}
	return ui.Dim.Render("  " + strings.Join(parts, ", "))
}
