package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wintertree/internal/adapters/filesystem"
	"wintertree/internal/application"
	"wintertree/internal/config"
)

var (
	worksDir    string
	conceptsDir string
	scanDir     string

	store *filesystem.Store
)

var rootCmd = &cobra.Command{
	Use:   "wintertree-cli",
	Short: "CLI for building concept co-occurrence indexes from OpenAlex works",
	Long: `wintertree-cli scans a local snapshot of gzipped OpenAlex works and
builds time-partitioned concept activity and co-occurrence indexes.

The corpus is processed in resumable chunks: each chunk's artifacts are
committed atomically before progress advances, so an interrupted run can be
resumed without losing or double-counting work.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		store = filesystem.NewStore(scanDir)
		return nil
	},
}

// Execute runs the root command. A clean interrupt exits 2 so wrappers can
// tell "stopped, resume later" from a real failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, application.ErrInterrupted) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&worksDir, "works", "w", config.WorksDir(), "path to the gzipped works corpus")
	rootCmd.PersistentFlags().StringVarP(&conceptsDir, "concepts", "c", config.ConceptsDir(), "path to the concepts vocabulary snapshot")
	rootCmd.PersistentFlags().StringVarP(&scanDir, "scan-dir", "s", config.ScanDir(), "output directory for the tree and chunk artifacts")
}

// GetStore returns the initialized scan directory store
func GetStore() *filesystem.Store {
	return store
}
