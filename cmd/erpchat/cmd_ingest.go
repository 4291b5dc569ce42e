package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/set-night/erpchat/internal/service"
)

var ingestFlags struct {
	watch bool
}

var ingestCmd = &cobra.Command{
	Use:   "ingest DIR",
	Short: "Index every document under DIR into the vector store",
	Long: `Loads each .pdf, .txt, .md and .html file under DIR, splits it into chunks,
embeds them and writes them to the configured vector index. Files that fail are
logged and skipped. With --watch the command keeps running and re-ingests files
as they are created or changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestFlags.watch, "watch", "w", false, "Keep watching DIR after the first pass")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	dir := args[0]

	a, err := newIngestApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.ingestor.IngestDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", dir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d files (%d chunks), skipped %d, failed %d\n",
		rep.Files-rep.Failed, rep.Chunks, rep.Skipped, rep.Failed)

	if !ingestFlags.watch {
		return nil
	}
	slog.Info("watching for document changes", "dir", dir)
	return service.NewWatcher(a.ingestor, dir).Run(ctx)
}
