package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"wintertree/internal/adapters/filesystem"
	"wintertree/internal/application"
	"wintertree/internal/application/commands"
)

var scanChunks int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan pending chunks and commit their artifacts",
	Long: `Process up to N pending chunks in plan order. Each chunk's artifacts
are written atomically and progress is saved before the next chunk starts.

Ctrl+C requests a stop: the in-flight chunk finishes and commits, then the
run exits with status 2. Running scan again resumes where it left off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := GetStore()
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		coord := application.NewCoordinator()
		stop := coord.WatchSignals(func() {
			fmt.Fprintln(os.Stderr, "stop requested, finishing current chunk")
		}, os.Interrupt, syscall.SIGTERM)
		defer stop()

		scanCmd := commands.NewScanCommand(
			filesystem.NewCorpus(worksDir),
			store, store, store,
			coord, logger,
		)
		scanCmd.MaxChunks = scanChunks

		result, err := scanCmd.Execute(cmd.Context())
		if errors.Is(err, application.ErrScanComplete) {
			fmt.Println("All chunks already scanned")
			return nil
		}
		if result != nil {
			fmt.Println(result.Message)
		}
		return err
	},
}

func init() {
	scanCmd.Flags().IntVarP(&scanChunks, "chunks", "n", 1, "number of chunks to scan this run")
	rootCmd.AddCommand(scanCmd)
}
