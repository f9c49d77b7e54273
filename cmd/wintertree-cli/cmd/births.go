package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wintertree/internal/adapters/sqlite"
	"wintertree/internal/application/commands"
)

var birthsCmd = &cobra.Command{
	Use:   "births",
	Short: "Derive each concept's earliest period of activity",
	Long: `Read the activity tables of every completed chunk and record the
earliest period each concept appears in. The result is written to the scan
directory and synced into the concept query index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := GetStore()

		index := sqlite.NewIndex()
		if err := index.Open(scanDir); err != nil {
			return fmt.Errorf("failed to open concept index: %w", err)
		}
		defer index.Close()

		result, err := commands.NewBirthsCommand(store, store, store, index).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(birthsCmd)
}
