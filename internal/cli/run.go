package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/pipeline"
)

func runHarvest(cmd *cobra.Command, _ []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	var observer pipeline.Observer
	var bar *progressbar.ProgressBar
	if a.Config.Progress && !a.Config.JSONLog {
		bar = newProgressBar()
		observer = progressObserver(bar)
	}

	summary, err := a.Pipeline(observer).Run(cmd.Context())
	if bar != nil {
		_ = bar.Finish()
	}
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary)
	}
	return err
}

// newProgressBar returns a spinner; the page total is unknown until every
// listing has been walked
func newProgressBar() *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("discovering"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionClearOnFinish(),
	)
}

func progressObserver(bar *progressbar.ProgressBar) pipeline.Observer {
	return func(ev pipeline.Event) {
		switch ev.Stage {
		case pipeline.StageListing:
			bar.Describe(fmt.Sprintf("listed %s (%d links)", ev.Subcategory, ev.Links))
		case pipeline.StagePage:
			bar.Describe(ev.Subcategory)
			_ = bar.Add(1)
		}
	}
}
