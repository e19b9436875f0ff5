// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/app"
	"github.com/law-makers/harvest/internal/config"
	"github.com/law-makers/harvest/internal/ui"
)

// rootCmd performs a full harvest when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest publications and their documents from the SIPRI website",
	Long: `Harvest discovers the publication categories from the site navigation,
walks every paginated listing, and saves one JSON record per page together
with the documents it links to.

Records are written to {output}/{category}/{subcategory}/{title}.json and
documents to {output}/{category}/{subcategory}/pdf/{title}/.`,
	Example: `  # Full run into the current directory
  harvest

  # Full run with a progress bar into ./data
  harvest -o data --progress

  # Show the discovered taxonomy
  harvest taxonomy

  # Harvest a single page
  harvest page /commentary/essay/2024/example --label Essays`,
	Version:       "0.1.0",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runHarvest,
}

// Execute runs the CLI with ctx as the root context; cancelling ctx stops
// scheduling new work.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Initialize the application lazily so -h and --version stay cheap
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		if cfg.JSONLog {
			ui.SetEnabled(false)
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return
		}
		_ = a.Close(context.Background())
		SetApp(cmd, nil)
	}

	config.RegisterFlags(rootCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(helpFunc)
}

// helpFunc prints colorized help
func helpFunc(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "\n%s\n", ui.Heading(strings.ToUpper(cmd.Name())))
	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", cmd.Long)
	}

	fmt.Fprintf(w, "\n%s\n", ui.Bold("Usage"))
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s\n", ui.Style(ui.ColorCyan, cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s %s %s\n", ui.Style(ui.ColorCyan, cmd.CommandPath()), ui.Warn("<command>"), ui.Dim("[flags]"))
	}

	if cmd.HasExample() {
		fmt.Fprintf(w, "\n%s\n", ui.Bold("Examples"))
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
			case strings.HasPrefix(trimmed, "#"):
				fmt.Fprintf(w, "  %s\n", ui.Dim(trimmed))
			default:
				fmt.Fprintf(w, "  %s\n\n", ui.Success("$ "+trimmed))
			}
		}
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%s\n", ui.Bold("Commands"))
		for _, c := range cmd.Commands() {
			if !c.IsAvailableCommand() || c.Name() == "help" {
				continue
			}
			fmt.Fprintf(w, "  %s  %s\n", ui.Style(ui.ColorCyan, fmt.Sprintf("%-10s", c.Name())), ui.Dim(c.Short))
		}
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(w, "\n%s\n", ui.Bold("Flags"))
		printFlags(w, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(w, "\n%s\n", ui.Bold("Global Flags"))
		printFlags(w, cmd.InheritedFlags().FlagUsages())
	}
	fmt.Fprintln(w)
}

// printFlags colors the flag column of pflag's usage text
func printFlags(w io.Writer, usages string) {
	for _, line := range strings.Split(usages, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")
		flag, desc, ok := strings.Cut(trimmed, "   ")
		if !ok || !strings.HasPrefix(trimmed, "-") {
			fmt.Fprintf(w, "      %s\n", ui.Dim(trimmed))
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", ui.Success(fmt.Sprintf("%-34s", flag)), ui.Dim(strings.TrimSpace(desc)))
	}
}
