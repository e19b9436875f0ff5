package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/ui"
)

var (
	pageLabel    string
	pageCategory string
)

var pageCmd = &cobra.Command{
	Use:   "page <path>",
	Short: "Harvest a single detail page",
	Long: `Harvest one detail page and its documents. The top-level category is read
from the site menu unless --category is given.`,
	Example: `  harvest page /commentary/essay/2024/example --label Essays
  harvest page /research/topic/article-1 --label Topic --category Research`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.Flags().StringVarP(&pageLabel, "label", "l", "", "Subcategory display name the page is filed under")
	pageCmd.Flags().StringVar(&pageCategory, "category", "", "Top-level category (skips menu discovery)")
	_ = pageCmd.MarkFlagRequired("label")
}

func runPage(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	res, err := a.Pipeline(nil).HarvestOne(cmd.Context(), args[0], pageLabel, pageCategory)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", ui.Success("saved"), res.RecordPath)
	for _, doc := range res.Documents {
		fmt.Fprintf(w, "  %s %s\n", ui.Dim("document"), doc.Path)
	}
	if res.Failed > 0 {
		fmt.Fprintf(w, "  %s\n", ui.Warn(fmt.Sprintf("%d document(s) failed", res.Failed)))
	}
	return nil
}
