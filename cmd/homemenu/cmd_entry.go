package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/homemenu/internal/fsutil"
	"github.com/battlewithbytes/homemenu/internal/menu"
	"github.com/battlewithbytes/homemenu/internal/ui"
)

var (
	placeIn    string
	placeIndex int

	homebrewArgv string

	moveUp bool

	rmYes bool

	renameAuthor  string
	renameVersion string
	renameIcon    string
	renameReset   bool
)

func init() {
	for _, c := range []*cobra.Command{mkdirCmd, addHomebrewCmd} {
		c.Flags().StringVar(&placeIn, "in", "", "address of the folder to create the entry in (default: root)")
		c.Flags().IntVar(&placeIndex, "index", -1, "position of the new entry (default: next free)")
	}
	addHomebrewCmd.Flags().StringVar(&homebrewArgv, "argv", "", "launch arguments (default: the executable path)")
	moveCmd.Flags().BoolVar(&moveUp, "up", false, "move the entry to its folder's parent")
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "do not ask before removing a folder")
	renameCmd.Flags().StringVar(&renameAuthor, "author", "", "custom author")
	renameCmd.Flags().StringVar(&renameVersion, "version", "", "custom version")
	renameCmd.Flags().StringVar(&renameIcon, "icon", "", "custom icon path")
	renameCmd.Flags().BoolVar(&renameReset, "reset", false, "drop all custom overrides")

	rootCmd.AddCommand(mkdirCmd, addHomebrewCmd, moveCmd, reorderCmd, swapCmd, rmCmd, renameCmd)
}

// placement resolves the --in and --index flags to a directory and index.
func placement(s *session) (string, uint32, error) {
	addr, err := menu.ParseAddress(placeIn)
	if err != nil {
		return "", 0, err
	}
	dir, err := s.cat.Dir(addr)
	if err != nil {
		return "", 0, err
	}
	if placeIndex < 0 {
		return dir, menu.NextFreeIndex(dir), nil
	}
	idx := uint32(placeIndex)
	if fsutil.Exists(menu.EntryPath(dir, idx)) {
		return "", 0, fmt.Errorf("index %d is taken", idx)
	}
	return dir, idx, nil
}

func lookupArg(s *session, arg string) (menu.Entry, error) {
	addr, err := menu.ParseAddress(arg)
	if err != nil {
		return menu.Entry{}, err
	}
	return s.cat.Lookup(addr)
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			dir, idx, err := placement(s)
			if err != nil {
				return err
			}
			e, err := s.cat.CreateFolder(dir, args[0], idx)
			if err != nil {
				return err
			}
			fmt.Println(ui.Check(fmt.Sprintf("Created folder %s at index %d", ui.White.Render(e.Folder.Name), e.Index)))
			return nil
		})
	},
}

var addHomebrewCmd = &cobra.Command{
	Use:   "add-homebrew <nro-path>",
	Short: "Add a homebrew shortcut",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			dir, idx, err := placement(s)
			if err != nil {
				return err
			}
			argv := homebrewArgv
			if argv == "" {
				argv = args[0]
			}
			e, err := s.cat.CreateHomebrewEntry(dir, args[0], argv, idx)
			if err != nil {
				return err
			}
			name := e.DisplayName()
			if name == "" {
				name = e.Homebrew.Path
			}
			fmt.Println(ui.Check(fmt.Sprintf("Added %s at index %d", ui.White.Render(name), e.Index)))
			return nil
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <entry> [folder]",
	Short: "Move an entry into a folder (\"/\" for the root)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if moveUp == (len(args) == 2) {
			return fmt.Errorf("give either a destination folder or --up")
		}
		return withSession(func(s *session) error {
			e, err := lookupArg(s, args[0])
			if err != nil {
				return err
			}
			if moveUp {
				err = s.cat.MoveToParent(&e)
			} else {
				var addr menu.Address
				if addr, err = menu.ParseAddress(args[1]); err != nil {
					return err
				}
				var dir string
				if dir, err = s.cat.Dir(addr); err != nil {
					return err
				}
				err = s.cat.Move(&e, dir)
			}
			if err != nil {
				return err
			}
			fmt.Println(ui.Check(fmt.Sprintf("Moved to %s", ui.White.Render(e.Path))))
			return nil
		})
	},
}

var reorderCmd = &cobra.Command{
	Use:   "reorder <entry> <index>",
	Short: "Move an entry to a free index within its folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var idx uint32
		if _, err := fmt.Sscan(args[1], &idx); err != nil {
			return fmt.Errorf("invalid index %q", args[1])
		}
		return withSession(func(s *session) error {
			e, err := lookupArg(s, args[0])
			if err != nil {
				return err
			}
			ok, err := s.cat.MoveToIndex(&e, idx)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("index %d is taken (use swap to exchange entries)", idx)
			}
			fmt.Println(ui.Check(fmt.Sprintf("Moved to index %d", idx)))
			return nil
		})
	},
}

var swapCmd = &cobra.Command{
	Use:   "swap <entry> <entry>",
	Short: "Exchange the positions of two entries of the same folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			a, err := lookupArg(s, args[0])
			if err != nil {
				return err
			}
			b, err := lookupArg(s, args[1])
			if err != nil {
				return err
			}
			if err := s.cat.SwapOrder(&a, &b); err != nil {
				return err
			}
			fmt.Println(ui.Check(fmt.Sprintf("Swapped indices %d and %d", b.Index, a.Index)))
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <entry>",
	Short: "Remove an entry; a folder's contents move to its parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			e, err := lookupArg(s, args[0])
			if err != nil {
				return err
			}

			if e.Is(menu.EntryFolder) && !rmYes {
				confirmed := false
				err := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Remove folder %q?", e.Folder.Name)).
						Description("Its entries are moved to the enclosing folder.").
						Value(&confirmed),
				)).WithTheme(huh.ThemeCatppuccin()).Run()
				if errors.Is(err, huh.ErrUserAborted) || (err == nil && !confirmed) {
					fmt.Println("Removal cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
			}

			moved, err := s.cat.Remove(&e)
			if err != nil {
				return err
			}
			fmt.Println(ui.Check("Removed " + ui.White.Render(args[0])))
			for i := range moved {
				fmt.Println(ui.Dim.Render(fmt.Sprintf("  %s -> index %d", moved[i].DisplayName(), moved[i].Index)))
			}
			return nil
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <entry> [name]",
	Short: "Rename a folder or set custom control data on an entry",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			e, err := lookupArg(s, args[0])
			if err != nil {
				return err
			}

			if e.Is(menu.EntryFolder) {
				if len(args) != 2 || args[1] == "" {
					return fmt.Errorf("a folder needs a new name")
				}
				e.Folder.Name = args[1]
			} else {
				f := cmd.Flags()
				if renameReset {
					e.Control.ClearCustom()
				}
				if len(args) == 2 {
					e.Control.SetName(args[1])
				}
				if f.Changed("author") {
					e.Control.SetAuthor(renameAuthor)
				}
				if f.Changed("version") {
					e.Control.SetVersion(renameVersion)
				}
				if f.Changed("icon") {
					e.Control.SetIconPath(renameIcon)
				}
			}

			if err := s.cat.Save(&e); err != nil {
				return err
			}
			fmt.Println(ui.Check("Updated " + ui.White.Render(args[0])))
			return nil
		})
	},
}
