package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cratedoc/internal/cache"
	"github.com/mvp-joe/cratedoc/internal/config"
)

var cacheClear bool

// cacheCmd inspects or clears the artifact cache.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the artifact cache",
	Long: `Show the artifact cache location and its entries, or clear it entirely.

The cache is a single JSON file shared by every cratedoc process on the
machine. Writers do not coordinate: the last write wins.`,
	RunE: runCache,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.Flags().BoolVar(&cacheClear, "clear", false, "remove all cache entries")
}

func runCache(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store := cache.NewStore(cfg.Cache.Path)
	if err := store.Load(); err != nil {
		return err
	}

	if cacheClear {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	}

	entries := store.Entries()
	fmt.Printf("Cache file: %s\n", store.Path())
	fmt.Printf("Entries: %d\n", len(entries))
	for _, e := range entries {
		age := time.Since(time.UnixMilli(e.LastBuildTime)).Round(time.Second)
		state := "not built"
		if e.IsBuilt {
			state = "built"
		}
		fmt.Printf("  %s (%s) %s, checked %s ago\n", e.CrateName, e.ProjectPath, state, age)
	}
	return nil
}
