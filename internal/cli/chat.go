package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docqa/internal/usecase"
)

var chatCmd = &cobra.Command{
	Use:   "chat [folder]",
	Short: "Interactive question answering over a folder",
	Long: `Index the folder once, then answer questions interactively.

Commands inside the session:
  /reindex   rebuild the index from the folder
  /exit      leave the session`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
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

	reindex := func() error {
		fmt.Printf("Indexing %s...\n", source)
		renderer := newProgressRenderer()
		if err := session.Reindex(ctx, source, renderer.update); err != nil {
			if errors.Is(err, usecase.ErrNoContent) {
				return fmt.Errorf("no readable documents found in %s", source)
			}
			return fmt.Errorf("indexing failed: %w", err)
		}
		return nil
	}

	if err := reindex(); err != nil {
		return err
	}

	fmt.Println("Ready. Type a question, /reindex, or /exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/exit" || line == "/quit":
			return nil
		case line == "/reindex":
			if err := reindex(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			continue
		}

		answer, err := session.Ask(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		fmt.Println(answer.Text)
		if len(answer.Sources) > 0 {
			fmt.Printf("Sources: %s\n", strings.Join(answer.Sources, ", "))
		}
		fmt.Println()
	}

	return scanner.Err()
}
