// Command modcheck runs the moderation fixture battery against the configured
// policy and prints the results as a table.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"campusconnect/internal/config"
	"campusconnect/internal/logger"
	"campusconnect/internal/moderation"
	"campusconnect/internal/services"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var errFixturesFailed = errors.New("moderation fixtures failed")

func main() {
	_ = godotenv.Load()
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		offline  bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "modcheck",
		Short:         "Run the moderation fixture battery",
		Long:          `Run every built-in moderation fixture through the engine and report which verdicts match expectations.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(logLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			cfg := config.Load()
			if offline {
				cfg.OpenAIAPIKey = ""
			}
			engine, err := services.NewEngine(cfg, log)
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}

			rep := moderation.RunHarness(cmd.Context(), engine, moderation.DefaultFixtures())
			renderReport(cmd.OutOrStdout(), rep)
			if rep.Failed > 0 {
				return fmt.Errorf("%w: %d of %d", errFixturesFailed, rep.Failed, rep.Passed+rep.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip the remote classifier even if OPENAI_API_KEY is set")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level for engine diagnostics")
	return cmd
}

func renderReport(w io.Writer, rep moderation.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Fixture", "Type", "Expected", "Flagged", "Method", "Result"})

	for _, r := range rep.Results {
		result := "PASS"
		switch {
		case r.Skipped:
			result = "SKIP"
		case !r.Passed:
			result = "FAIL"
		}
		t.AppendRow(table.Row{
			r.Fixture.Name,
			r.Fixture.ContentType,
			r.Fixture.ExpectFlagged,
			r.Verdict.Flagged,
			r.Verdict.Method,
			result,
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", "Success rate", fmt.Sprintf("%.1f%%", rep.SuccessRate)})
	t.Render()
	fmt.Fprintf(w, "passed=%d failed=%d skipped=%d\n", rep.Passed, rep.Failed, rep.Skipped)
}
