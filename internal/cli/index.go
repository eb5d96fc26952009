package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docqa/config"
	"docqa/internal/usecase"
)

var indexCmd = &cobra.Command{
	Use:   "index [folder]",
	Short: "Build the document index and report stats",
	Long: `Build the in-memory index for a folder and report what was indexed.
Useful to check that the corpus, config, and provider credentials work
before asking questions.

Examples:
  docqa index ./docs               # Index a local directory
  docqa index 1AbC...xyz           # Index a Drive folder (repository.provider: drive)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

// resolveSource turns the positional argument into a folder reference
// the configured repository understands. For the filesystem provider it
// must be an existing directory; for Drive it is a folder ID.
func resolveSource(cfg *config.Config, args []string) (string, error) {
	source := GetRootDir()
	if len(args) > 0 {
		source = args[0]
	}

	if cfg.Repository.Provider == "filesystem" {
		abs, err := filepath.Abs(source)
		if err != nil {
			return "", fmt.Errorf("invalid path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("path does not exist: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("path is not a directory: %s", abs)
		}
		return abs, nil
	}
	return source, nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	source, err := resolveSource(cfg, args)
	if err != nil {
		return err
	}

	session, closeCache, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	fmt.Printf("Indexing %s...\n", source)

	renderer := newProgressRenderer()
	var fragments int
	if err := session.Reindex(ctx, source, func(p usecase.Progress) {
		renderer.update(p)
		fragments = p.Fragments
	}); err != nil {
		if errors.Is(err, usecase.ErrNoContent) {
			return fmt.Errorf("no readable documents found in %s", source)
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Fragments indexed: %d\n", fragments)
	fmt.Printf("  Session:           %s\n", session.ID())
	return nil
}
