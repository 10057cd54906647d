package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

var (
	queryTopK      int
	queryThreshold float64
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about the portfolio",
	Long: `Answers a question using the local knowledge base. When the knowledge base
has no sufficiently similar content and the question is on-topic, the answer
falls back to live web search.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (0 uses the configured default)")
	queryCmd.Flags().Float64Var(&queryThreshold, "threshold", 0, "similarity threshold for grounded answers (0 uses the configured default)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	ctx := context.Background()

	svc := assistantService
	if (queryTopK > 0 || queryThreshold > 0) && newAssistant != nil {
		svc = newAssistant(queryTopK, queryThreshold)
	}

	response, err := svc.Query(ctx, args[0])
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, response)
	}
	return outputQueryText(cmd, response)
}

func outputQueryJSON(cmd *cobra.Command, response *domain.RAGResponse) error {
	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, response *domain.RAGResponse) error {
	cmd.Println(response.Answer)

	if len(response.Sources) > 0 {
		cmd.Println()
		if response.SearchUsed {
			cmd.Println("Web sources:")
		} else {
			cmd.Println("Sources:")
		}
		for i, src := range response.Sources {
			title := src.Title
			if title == "" {
				title = src.Source
			}
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, src.Similarity)
			if src.Title != "" && src.Source != src.Title {
				cmd.Printf("      %s\n", src.Source)
			}
		}
	}

	return nil
}
