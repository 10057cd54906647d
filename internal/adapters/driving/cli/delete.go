package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [source]",
	Short: "Delete all chunks for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	source := args[0]
	if err := ingestService.DeleteBySource(context.Background(), source); err != nil {
		return fmt.Errorf("failed to delete %s: %w", source, err)
	}

	cmd.Printf("Deleted all chunks for %s\n", source)
	return nil
}
