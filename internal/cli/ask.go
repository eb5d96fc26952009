package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"docqa/internal/usecase"
)

var (
	askQuestion string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [folder]",
	Short: "Index a folder and answer one question",
	Long: `Index the folder, then answer a single question strictly from the
indexed documents.

Examples:
  docqa ask ./docs -q "What is the status of Project Hydra?"
  docqa ask ./docs -q "Who owns the migration?" --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	renderer := newProgressRenderer()
	if err := session.Reindex(ctx, source, renderer.update); err != nil {
		if errors.Is(err, usecase.ErrNoContent) {
			return fmt.Errorf("no readable documents found in %s", source)
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	answer, err := session.Ask(ctx, askQuestion)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	if askJSON {
		output, _ := json.MarshalIndent(answer, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range answer.Sources {
			fmt.Printf("  - %s\n", s)
		}
	}
	return nil
}
