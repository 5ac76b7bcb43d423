package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/validation"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gifr %s\n", Version)
			fmt.Fprintln(out, "Animated media feed for Reddit")
			fmt.Fprintln(out, "github.com/pders01/gifr")
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if !force && fileExists(path) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
			return nil
		},
	}
	generate.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(generate)
	return configCmd
}

func newFavoritesCmd(opts *globalOptions) *cobra.Command {
	favCmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "List and edit saved subreddits",
	}

	withStore := func(fn func(cmd *cobra.Command, store *storage.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			return fn(cmd, store, args)
		}
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show saved subreddits",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, store *storage.Store, _ []string) error {
			favs, err := store.Favorites()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(favs) == 0 {
				fmt.Fprintln(out, "No favorites yet")
				return nil
			}
			for _, f := range favs {
				fmt.Fprintf(out, "r/%-24s added %s  last used %s\n", f.Term, formatDate(f.AddedAt), formatDate(f.LastUsed))
			}
			return nil
		}),
	}

	add := &cobra.Command{
		Use:   "add <subreddit>",
		Short: "Save a subreddit",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, store *storage.Store, args []string) error {
			term, err := validation.ValidateTerm(args[0])
			if err != nil {
				return err
			}
			if err := store.AddFavorite(term); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved r/%s\n", term)
			return nil
		}),
	}

	remove := &cobra.Command{
		Use:     "remove <subreddit>",
		Aliases: []string{"rm"},
		Short:   "Forget a saved subreddit",
		Args:    cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, store *storage.Store, args []string) error {
			term := validation.NormalizeTerm(args[0])
			if err := store.RemoveFavorite(term); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("r/%s is not a favorite", term)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed r/%s\n", term)
			return nil
		}),
	}

	favCmd.AddCommand(list, add, remove)
	return favCmd
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("Jan 2 2006")
}
