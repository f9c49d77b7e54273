package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wintertree/internal/adapters/sqlite"
	"wintertree/internal/application/commands"
	"wintertree/internal/ports"
)

var queryLimit int

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the concept index",
	Long: `Query the SQLite concept index built by init and births.

Examples:
  wintertree-cli query search topology
  wintertree-cli query births 1990 2000`,
}

var querySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search concepts by name or OpenAlex ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIndex(func(index ports.ConceptIndex) error {
			result, err := commands.NewSearchConceptsCommand(index, args[0], queryLimit).Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
			return nil
		})
	},
}

var queryBirthsCmd = &cobra.Command{
	Use:   "births <from-year> <to-year>",
	Short: "List concepts born in a year range",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year: %s", args[0])
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid year: %s", args[1])
		}

		return withIndex(func(index ports.ConceptIndex) error {
			result, err := commands.NewBirthsBetweenCommand(index, from, to, queryLimit).Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
			return nil
		})
	},
}

func withIndex(fn func(ports.ConceptIndex) error) error {
	index := sqlite.NewIndex()
	if err := index.Open(scanDir); err != nil {
		return fmt.Errorf("failed to open concept index: %w", err)
	}
	defer index.Close()
	return fn(index)
}

func init() {
	queryCmd.PersistentFlags().IntVarP(&queryLimit, "limit", "l", 20, "maximum number of results")
	queryCmd.AddCommand(querySearchCmd)
	queryCmd.AddCommand(queryBirthsCmd)
	rootCmd.AddCommand(queryCmd)
}
