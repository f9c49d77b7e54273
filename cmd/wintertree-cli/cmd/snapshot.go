package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wintertree/internal/application/commands"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <cutoff-year>",
	Short: "Aggregate all committed chunks up to a cutoff year",
	Long: `Fold every committed chunk's activity and co-occurrence counts for
periods up to and including the cutoff year into one flat snapshot.

Example:
  wintertree-cli snapshot 2015`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cutoff, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid cutoff year: %s", args[0])
		}

		store := GetStore()
		result, err := commands.NewSnapshotCommand(store, store, cutoff).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
