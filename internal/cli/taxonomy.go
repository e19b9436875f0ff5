package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/utils/output"
)

var taxonomyJSON bool

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the category and subcategories found in the site menu",
	Example: `  # Human readable
  harvest taxonomy

  # As JSON
  harvest taxonomy --as-json`,
	Args: cobra.NoArgs,
	RunE: runTaxonomy,
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.Flags().BoolVar(&taxonomyJSON, "as-json", false, "Print the taxonomy as JSON")
}

func runTaxonomy(cmd *cobra.Command, _ []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	tax, err := a.Pipeline(nil).Discover(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if taxonomyJSON {
		data, err := output.MarshalJSON(tax)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	printTaxonomy(w, tax)
	return nil
}
