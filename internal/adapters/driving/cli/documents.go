package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage stored documents",
	Long:  `List sources, inspect stored chunks, count and delete documents.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list [source]",
	Short: "List sources, or the chunks of one source",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentsList,
}

var documentsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the total number of stored chunks",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsCount,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsCountCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	if len(args) == 0 {
		return listSources(ctx, cmd)
	}
	return listChunks(ctx, cmd, args[0])
}

func listSources(ctx context.Context, cmd *cobra.Command) error {
	sources, err := ingestService.Sources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("Knowledge base is empty.")
		return nil
	}

	cmd.Println("Sources:")
	for _, source := range sources {
		cmd.Printf("  %s\n", source)
	}
	cmd.Printf("\nTotal: %d sources\n", len(sources))
	return nil
}

func listChunks(ctx context.Context, cmd *cobra.Command, source string) error {
	chunks, err := ingestService.ListBySource(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Printf("No documents found for source: %s\n", source)
		return nil
	}

	cmd.Printf("Chunks for source %s:\n\n", source)
	for i := range chunks {
		cmd.Printf("  %s\n", chunks[i].ID)
		if chunks[i].Title != "" {
			cmd.Printf("    Title: %s\n", chunks[i].Title)
		}
		cmd.Printf("    %s\n", domain.Preview(chunks[i].Content, 80))
		cmd.Println()
	}

	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}

func runDocumentsCount(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	count, err := ingestService.DocumentCount(context.Background())
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}

	cmd.Printf("%d chunks stored\n", count)
	return nil
}
