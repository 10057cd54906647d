package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	ingestText      string
	ingestSource    string
	ingestMediaType string
	ingestReplace   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Add documents to the knowledge base",
	Long: `Extracts text from the given files, splits it into chunks, embeds the
chunks and stores them. Supported formats: plain text, CSV, JSON, YAML,
Markdown and DOCX. Use --text to ingest a literal string instead of files.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestText, "text", "", "ingest this literal text instead of files")
	ingestCmd.Flags().StringVarP(&ingestSource, "source", "s", "", "source name (required with --text, overrides the filename otherwise)")
	ingestCmd.Flags().StringVar(&ingestMediaType, "media-type", "", "override the media type detected from the file extension")
	ingestCmd.Flags().BoolVar(&ingestReplace, "replace", false, "delete existing chunks for the source before ingesting")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	if ingestText != "" {
		return runIngestText(ctx, cmd)
	}

	if len(args) == 0 {
		return errors.New("provide at least one file, or --text")
	}
	if ingestSource != "" && len(args) > 1 {
		return errors.New("--source applies to a single file only")
	}

	failures := 0
	for _, path := range args {
		if err := ingestFile(ctx, cmd, path); err != nil {
			failures++
			cmd.PrintErrf("  %s: %v\n", path, err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(args))
	}
	return nil
}

func runIngestText(ctx context.Context, cmd *cobra.Command) error {
	if ingestSource == "" {
		return errors.New("--source is required with --text")
	}

	if ingestReplace {
		if err := ingestService.DeleteBySource(ctx, ingestSource); err != nil {
			return fmt.Errorf("replace %s: %w", ingestSource, err)
		}
	}

	result, err := ingestService.ProcessAndStoreText(ctx, ingestText, ingestSource)
	if err != nil {
		return fmt.Errorf("ingest text: %w", err)
	}

	cmd.Printf("Stored %d chunks for %s\n", result.ChunkCount, result.Source)
	return nil
}

func ingestFile(ctx context.Context, cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	source := ingestSource
	if source == "" {
		source = filepath.Base(path)
	}

	mediaType := ingestMediaType
	if mediaType == "" {
		mediaType = detectMediaType(path)
	}

	if ingestReplace {
		if err := ingestService.DeleteBySource(ctx, source); err != nil {
			return fmt.Errorf("replace %s: %w", source, err)
		}
	}

	result, err := ingestService.ProcessAndStore(ctx, data, mediaType, source)
	if err != nil {
		return err
	}

	cmd.Printf("Stored %d chunks for %s", result.ChunkCount, result.Source)
	if result.Title != "" {
		cmd.Printf(" (%s)", result.Title)
	}
	cmd.Println()
	return nil
}

// detectMediaType maps a file extension to a media type, defaulting to
// text/plain for unknown extensions so bare notes files still ingest.
func detectMediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return "text/plain"
}
