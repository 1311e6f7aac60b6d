package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lgmartins/triagem/internal/catalog"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the subsidy catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog CSV",
	Long: `Validate checks that a catalog file parses, that every entry has a
unique id, and reports entries without example phrasings (they only
match on name and description, which weakens Stage A).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(args[0])
		if err != nil {
			return err
		}

		withoutExamples := 0
		for _, e := range cat.Entries() {
			if len(e.Examples) == 0 {
				withoutExamples++
				fmt.Printf("! %s (%s): no example phrasings\n", e.ID, e.Name)
			}
		}

		fmt.Printf("✓ %s: %d subsidies", args[0], cat.Len())
		if withoutExamples > 0 {
			fmt.Printf(", %d without examples", withoutExamples)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}
