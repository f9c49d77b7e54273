package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wintertree/internal/application/commands"
)

var statusPeriods int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scan progress and the busiest periods",
	RunE: func(cmd *cobra.Command, args []string) error {
		statusCmd := commands.NewStatusCommand(GetStore())
		statusCmd.TopN = statusPeriods

		result, err := statusCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVarP(&statusPeriods, "periods", "p", 15, "number of busiest periods to show")
	rootCmd.AddCommand(statusCmd)
}
