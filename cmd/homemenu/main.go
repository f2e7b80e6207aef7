package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/homemenu/internal/config"
	"github.com/battlewithbytes/homemenu/internal/hbcache"
	"github.com/battlewithbytes/homemenu/internal/menu"
	"github.com/battlewithbytes/homemenu/internal/registry"
	"github.com/battlewithbytes/homemenu/internal/ui"
	"github.com/battlewithbytes/homemenu/internal/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "homemenu",
	Short:         "homemenu manages the launcher's application catalog",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Long = ui.Green.Render("homemenu") + " " + ui.Cyan.Render(version.Version) + "\n" +
		ui.Dim.Render("Inspect and rearrange the home-menu catalog: folders, homebrew shortcuts and installed applications.")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "config file")
}

// session bundles what a catalog command needs. Close releases the registry.
type session struct {
	cfg   *config.Config
	log   *logrus.Logger
	store *registry.Store
	cat   *menu.Catalog
}

func (s *session) Close() error {
	return s.store.Close()
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.Log.Format == config.LogFormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return log
}

func openSession() (*session, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log := newLogger(cfg)

	if err := os.MkdirAll(cfg.Cache.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Registry.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}
	store, err := registry.NewStore(cfg.Registry.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}

	cat, err := menu.New(menu.Options{
		Root:            cfg.Menu.Root,
		LegacyRoot:      cfg.Menu.LegacyRoot,
		DefaultHomebrew: cfg.HomebrewShortcuts(),
		Registry:        store,
		Cache:           hbcache.New(cfg.Cache.Dir),
		Logger:          log,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	return &session{cfg: cfg, log: log, store: store, cat: cat}, nil
}

// withSession opens a session for the duration of fn.
func withSession(fn func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Red.Render("error:")+" "+err.Error())
		os.Exit(1)
	}
}
