package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wintertree/internal/adapters/filesystem"
	"wintertree/internal/adapters/sqlite"
	"wintertree/internal/application/commands"
	"wintertree/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Build the concept lookup and plan the chunk sequence",
	Long: `Load the concept vocabulary, enumerate the works corpus and write a
fresh chunk plan to the scan directory.

Re-planning over recorded progress requires --force and discards all
completed chunk state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := GetStore()

		initCmd := commands.NewInitializeCommand(
			filesystem.NewVocabulary(conceptsDir),
			filesystem.NewCorpus(worksDir),
			store, store,
		)
		initCmd.WorksDir = worksDir
		initCmd.ChunkTargetBytes = config.ChunkTargetBytes()
		initCmd.MinConceptScore = config.MinConceptScore()
		initCmd.MonthFromYear = config.MonthFromYear()
		initCmd.Force = initForce

		result, err := initCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)

		// Seed the query index so searches work before the first scan.
		index := sqlite.NewIndex()
		if err := index.Open(scanDir); err != nil {
			return fmt.Errorf("failed to open concept index: %w", err)
		}
		defer index.Close()

		lookup, err := store.LoadLookup()
		if err != nil {
			return err
		}
		stats, err := index.SyncLookup(lookup)
		if err != nil {
			return fmt.Errorf("failed to sync concept index: %w", err)
		}
		fmt.Printf("Indexed %d concepts\n", stats.ConceptsUpserted)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "discard an existing plan and all progress")
	rootCmd.AddCommand(initCmd)
}
