package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parse result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached parse results",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cacheDir()

		entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return fmt.Errorf("scan cache directory: %w", err)
		}
		for _, entry := range entries {
			if err := os.Remove(entry); err != nil {
				return fmt.Errorf("remove %s: %w", entry, err)
			}
		}

		fmt.Printf("✓ Removed %d cached results from %s\n", len(entries), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
