package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/feed"
	"github.com/pders01/gifr/internal/reddit"
	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/tui"
	"github.com/pders01/gifr/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	dbPath     string
	logLevel   string
	quiet      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "gifr",
		Short:         "Browse looping Reddit videos from the terminal",
		Long:          "gifr pages through a subreddit's playable media and opens items in your video player.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flags.StringVar(&opts.dbPath, "db", "", "Path to database file (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")
	flags.BoolVar(&opts.quiet, "quiet", false, "Skip startup banner")

	root.AddCommand(
		newVersionCmd(),
		newConfigCmd(opts),
		newFetchCmd(opts),
		newFavoritesCmd(opts),
	)
	return root
}

// loadConfig reads the config file and applies flag overrides and
// validation. It does not touch the database.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	host, err := validation.ValidateBaseURL(cfg.Feed.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid feed.host: %w", err)
	}
	cfg.Feed.Host = host

	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	path, err := validation.ValidateDBPath(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}
	store, err := storage.NewStoreWithTimeout(path, cfg.Database.Timeout)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

// newEngine wires the listing source for cfg into a feed engine.
func newEngine(cfg *config.Config, initial string, favorites feed.FavoriteStore) *feed.Engine {
	opts := []feed.Option{
		feed.WithInitialTerm(initial),
		feed.WithDebounce(cfg.Feed.Debounce),
		feed.WithNormalizer(validation.NormalizeTerm),
	}
	if favorites != nil {
		opts = append(opts, feed.WithFavoriteStore(favorites))
	}
	return feed.NewEngine(reddit.NewSource(cfg.Feed), opts...)
}

func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	if !opts.quiet {
		tui.ShowBanner(Version)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return err
	}
	defer debuglog.Close()

	tui.ApplyTheme(cfg.UI.Colors)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	initial := cfg.Feed.Subreddit
	if last, err := store.LastTerm(); err == nil && last != "" {
		initial = last
	}

	engine := newEngine(cfg, initial, store)
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- engine.Run(ctx) }()

	app := tui.NewApp(cfg, engine)
	defer app.Close()

	_, progErr := tea.NewProgram(app, tea.WithAltScreen()).Run()

	cancel()
	if err := <-runErr; err != nil {
		debuglog.Errorf("feed engine: %v", err)
	}

	rememberSession(store, engine.Snapshot())

	if progErr != nil {
		return fmt.Errorf("running TUI: %w", progErr)
	}
	return nil
}

// rememberSession stores the last browsed term so the next launch resumes it.
func rememberSession(store *storage.Store, vm feed.ViewModel) {
	if vm.Term == "" {
		return
	}
	if err := store.SetLastTerm(vm.Term); err != nil {
		debuglog.Warnf("saving last term: %v", err)
	}
	if vm.IsFavorite(vm.Term) {
		if err := store.TouchFavorite(vm.Term); err != nil {
			debuglog.Warnf("updating favorite %q: %v", vm.Term, err)
		}
	}
}
