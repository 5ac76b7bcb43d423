package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/feed"
	"github.com/pders01/gifr/internal/reddit"
	"github.com/pders01/gifr/internal/validation"
)

type fetchOptions struct {
	pages  int
	strict bool
	json   bool
}

func newFetchCmd(opts *globalOptions) *cobra.Command {
	fo := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch <subreddit>",
		Short: "Print the playable media of a subreddit without the TUI",
		Long: "fetch runs the feed headless and prints every playable item.\n" +
			"Failed requests end the feed quietly unless --strict is set.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := validation.ValidateTerm(args[0])
			if err != nil {
				return err
			}
			if fo.pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Log.File != "" {
				if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
					return err
				}
				defer debuglog.Close()
			} else {
				debuglog.SetupWriter(debuglog.ParseLogLevel(cfg.Log.Level), cmd.ErrOrStderr())
			}

			var items []feed.MediaItem
			if fo.strict {
				items, err = fetchStrict(cmd.Context(), cfg, term, fo.pages)
			} else {
				items, err = fetchHeadless(cmd.Context(), cfg, term, fo.pages)
			}
			if err != nil {
				return err
			}
			return printItems(cmd.OutOrStdout(), items, fo.json)
		},
	}

	cmd.Flags().IntVarP(&fo.pages, "pages", "n", 1, "Number of pages to load")
	cmd.Flags().BoolVar(&fo.strict, "strict", false, "Fail on the first request error")
	cmd.Flags().BoolVar(&fo.json, "json", false, "Print items as JSON")
	return cmd
}

// fetchHeadless drives a feed engine the way the TUI does: one initial
// load, then one scroll request per extra page.
func fetchHeadless(ctx context.Context, cfg *config.Config, term string, pages int) ([]feed.MediaItem, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := newEngine(cfg, term, nil)
	snaps, unsubscribe := engine.Subscribe()
	defer unsubscribe()

	runErr := make(chan error, 1)
	go func() { runErr <- engine.Run(ctx) }()

	vm, err := waitSettled(ctx, snaps)
	if err != nil {
		return nil, err
	}

	for page := 1; page < pages && len(vm.Items) > 0; page++ {
		before := len(vm.Items)

		done := make(chan struct{})
		var once sync.Once
		engine.RequestNextPage(vm.Epoch, vm.LastToken(), func() { once.Do(func() { close(done) }) })

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if vm, err = waitSettled(ctx, snaps); err != nil {
			return nil, err
		}
		if len(vm.Items) == before {
			break
		}
	}

	cancel()
	if err := <-runErr; err != nil {
		return nil, err
	}
	return vm.Items, nil
}

// waitSettled returns the first snapshot of a committed term with no fetch
// in flight.
func waitSettled(ctx context.Context, snaps <-chan feed.ViewModel) (feed.ViewModel, error) {
	for {
		select {
		case <-ctx.Done():
			return feed.ViewModel{}, ctx.Err()
		case vm, ok := <-snaps:
			if !ok {
				return feed.ViewModel{}, fmt.Errorf("feed engine stopped")
			}
			if vm.Epoch > 0 && !vm.FetchingPage {
				return vm, nil
			}
		}
	}
}

// fetchStrict pages the listing directly so request errors surface.
func fetchStrict(ctx context.Context, cfg *config.Config, term string, pages int) ([]feed.MediaItem, error) {
	client := reddit.NewClient(cfg.Feed)
	acc := feed.NewAccumulator()

	after := ""
	for page := 0; page < pages; page++ {
		listing, err := client.Listing(ctx, term, after)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d of r/%s: %w", page+1, term, err)
		}
		acc.Append(reddit.ToMediaItems(listing))
		after = listing.Data.After
		if after == "" {
			break
		}
	}
	return acc.Items(), nil
}

func printItems(w io.Writer, items []feed.MediaItem, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	for _, it := range items {
		fmt.Fprintf(w, "%s\n  %s\n", it.Title, it.SourceURL)
	}
	fmt.Fprintf(w, "%d items\n", len(items))
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
