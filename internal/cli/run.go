// internal/cli/run.go
package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/schulverzeichnis/gather/internal/runner"
	"github.com/schulverzeichnis/gather/internal/source"
	"github.com/schulverzeichnis/gather/internal/ui"
	headerutil "github.com/schulverzeichnis/gather/internal/utils/headers"
)

var (
	runLimit    int
	runMaxPages int
	runDelay    time.Duration
	runOutDir   string
	runHeaders  []string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <source>",
	Short: "Scrape one school directory into a CSV artifact",
	Long: `Runs the full pipeline for a configured source: enumerate the
directory listing, resolve every school into a record, normalize the
fields and write a single timestamped CSV file.

Interrupting the run with Ctrl-C stops it between schools; everything
collected up to that point is still written.`,
	Example: `  # Scrape the Berlin school directory
  gather run berlin

  # A quick sample of ten schools
  gather run berlin --limit 10

  # Cap a paginated directory at five listing pages
  gather run saarland --max-pages 5

  # Slow down and write somewhere else
  gather run saxony --delay 3s --out-dir ./data`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runLimit, "limit", 0, "Maximum number of schools to process (0 = all)")
	runCmd.Flags().IntVar(&runMaxPages, "max-pages", 0, "Maximum listing pages to visit (0 = all)")
	runCmd.Flags().DurationVar(&runDelay, "delay", 0, "Pause between requests (default: per-source setting)")
	runCmd.Flags().StringVar(&runOutDir, "out-dir", "", "Directory for the output file (default: configured output dir)")
	runCmd.Flags().StringArrayVarP(&runHeaders, "header", "H", []string{}, "Custom headers (e.g., -H \"Cookie: consent=1\")")
}

func runRun(cmd *cobra.Command, args []string) error {
	a := GetApp()
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	cfg, err := source.Lookup(args[0])
	if err != nil {
		return err
	}

	delay := cfg.Delay
	if delay <= 0 {
		delay = a.Config.RequestDelay
	}
	if cmd.Flags().Changed("delay") {
		delay = runDelay
	}

	outDir := a.Config.OutputDir
	if runOutDir != "" {
		outDir = runOutDir
	}

	// Stop between schools on Ctrl-C; partial results are kept.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bar *progressbar.ProgressBar
	sink := func(e runner.Event) {
		switch e.Type {
		case runner.EventUnitStarted:
			if bar == nil {
				bar = progressbar.NewOptions(e.Total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("scraping "+cfg.Name),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			if e.Name != "" {
				bar.Describe(e.Name)
			}
		case runner.EventUnitCollected, runner.EventUnitFailed, runner.EventUnitSkipped:
			if bar != nil {
				bar.Add(1)
			}
		case runner.EventRunFinalized:
			if bar != nil {
				bar.Finish()
			}
		}
	}

	r := runner.New(cfg, a.NewFetcher(delay, headerutil.ParseHeaders(runHeaders)), runner.Options{
		Limit:    runLimit,
		MaxPages: runMaxPages,
		OutDir:   outDir,
		Sink:     sink,
	})

	result, err := r.Run(ctx)
	if err != nil {
		if errors.Is(err, runner.ErrNoData) {
			fmt.Fprintln(os.Stdout, ui.Info("No data collected."))
			return nil
		}
		return err
	}

	if result.Interrupted {
		fmt.Fprintln(os.Stdout, ui.Info("Interrupted; partial results saved."))
	}
	fmt.Fprintf(os.Stdout, "%s %d records saved to %s\n",
		ui.Success("✓"), len(result.Records), ui.Bold(result.Path))
	return nil
}
