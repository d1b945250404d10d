package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundwork/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pdf]",
	Short: "Re-ingest a PDF whenever it changes",
	Long: `Ingests the PDF, then watches it and ingests it again each time it is
written or replaced. Failed ingestions are reported and the previous
document stays in use. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newFileWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	changes, err := w.Watch(ctx, args[0])
	if err != nil {
		return fmt.Errorf("watch %s: %w", args[0], err)
	}

	watchIngest(ctx, cmd, args[0])
	cmd.Printf("Watching %s\n", args[0])

	for path := range changes {
		watchIngest(ctx, cmd, path)
	}
	return nil
}

// watchIngest ingests path and reports the outcome without stopping the watch.
func watchIngest(ctx context.Context, cmd *cobra.Command, path string) {
	report, err := ingestService.Ingest(ctx, path)
	if report != nil {
		printIngestReport(cmd, report)
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("ingest %s: %v", path, err)
		cmd.Println(warnStyle.Render("Ingestion failed: " + err.Error()))
	}
}
