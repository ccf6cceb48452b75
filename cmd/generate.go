package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dbrafael/tempa/internal/config"
	"github.com/dbrafael/tempa/internal/errors"
	"github.com/dbrafael/tempa/internal/logging"
	"github.com/dbrafael/tempa/internal/pipeline"
	"github.com/dbrafael/tempa/internal/values"
	"github.com/dbrafael/tempa/internal/watcher"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"g", "gen"},
	Short:   "Clone a template tree, rewriting placeholders",
	Long: `Clone the input directory into the output directory, rewriting
<open>dotted.key.path<close> placeholders in every text file using values
from the YAML replacement document. Placeholders whose path does not resolve
to a scalar value are left in place; files that are not valid text are copied
byte-for-byte.

The output directory must not already exist unless --force is given, in
which case it is removed first. Every file is processed independently and
concurrently; one failing file never aborts the rest of the run.

Examples:
  tempa generate -i ./template -o ./app -r replacements.yaml
  tempa generate -i ./tpl -o ./app -r r.yaml -s '{{' -c '}}'
  tempa generate -i ./tpl -o ./app -r r.yaml --force --watch`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.StringP("input", "i", "", "template directory to clone")
	flags.StringP("output", "o", "", "directory to generate into")
	flags.StringP("replacements", "r", "", "YAML replacement document")
	flags.StringP("open", "s", "", "opening delimiter (default \""+config.DefaultDelimiter+"\")")
	flags.StringP("close", "c", "", "closing delimiter (defaults to the opening delimiter)")
	flags.Bool("force", false, "remove the output directory before generating")
	flags.Bool("strict", false, "exit nonzero when any file fails")
	flags.BoolP("watch", "w", false, "watch the template directory and regenerate on change")

	cobra.CheckErr(config.BindFlags(flags))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	vals, err := values.LoadFile(cfg.Replacements)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := generateOnce(ctx, cfg, vals, logger, cfg.Force); err != nil {
		return err
	}

	if !cfg.Watch.Enabled {
		return nil
	}
	return watchAndRegenerate(ctx, cfg, vals, logger)
}

// generateOnce runs one full walk-and-execute cycle into a fresh output
// directory and prints the run summary.
func generateOnce(ctx context.Context, cfg *config.Config, vals values.Value, logger logging.Logger, clean bool) error {
	if _, err := os.Stat(cfg.Output); err == nil {
		if !clean {
			return errors.NewConfigError("output directory " + cfg.Output + " already exists (use --force to replace it)")
		}
		logger.Info(ctx, "cleaning output directory", "path", cfg.Output)
		if err := os.RemoveAll(cfg.Output); err != nil {
			return errors.NewDirCreateError(cfg.Output, err)
		}
	}

	ops, err := pipeline.Walk(cfg.Input, cfg.Output)
	if err != nil {
		return err
	}

	exec := pipeline.NewExecutor(cfg.Delimiters.Open, cfg.Delimiters.Close, vals, logger)
	summary := exec.ExecuteAll(ctx, ops)

	fmt.Printf("Finished cloning directory, %d/%d files processed.\n", summary.Succeeded, summary.Total)
	if failed := summary.Failed(); failed > 0 {
		fmt.Fprintf(os.Stderr, "Operation finished but %d files failed\n", failed)
		if cfg.Strict {
			return fmt.Errorf("%d of %d files failed", failed, summary.Total)
		}
	}
	return nil
}

// watchAndRegenerate re-runs generation into a freshly cleaned output
// directory whenever the template tree changes.
func watchAndRegenerate(ctx context.Context, cfg *config.Config, vals values.Value, logger logging.Logger) error {
	tw, err := watcher.New(cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer tw.Close()

	if err := tw.AddRecursive(cfg.Input); err != nil {
		return err
	}

	logger.Info(ctx, "watching for changes", "path", cfg.Input)
	err = tw.Watch(ctx, func(events []fsnotify.Event) {
		logger.Info(ctx, "template changed, regenerating", "events", len(events))
		if err := generateOnce(ctx, cfg, vals, logger, true); err != nil {
			logger.Error(ctx, err, "regeneration failed")
		}
	})
	if err == context.Canceled {
		return nil
	}
	return err
}
