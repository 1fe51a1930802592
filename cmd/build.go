package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagehydrate/internal/progress"
	"github.com/ziadkadry99/pagehydrate/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Hydrate every page of the site into the output directory",
	Long: `Loads the content document once, hydrates every page matched by the
include/exclude globs and writes it to the output directory. Other files
are copied unchanged.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory")
	buildCmd.Flags().String("content", "", "content document path or URL (overrides content_source)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.OutputDir = output
	}
	location, _ := cmd.Flags().GetString("content")
	h, src := newHydrator(cfg, location, logger)

	generator := &site.SiteGenerator{
		SiteDir:   cfg.SiteDir,
		OutputDir: cfg.OutputDir,
		Include:   cfg.Include,
		Exclude:   cfg.Exclude,
		Hydrator:  h,
		Source:    src,
		Reporter:  progress.NewReporter(),
		Logger:    logger,
	}

	result, err := generator.Generate(cmd.Context())
	if err != nil && !site.IsContentUnavailable(err) {
		return fmt.Errorf("building site: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Site built: %s (%d pages, %d assets)\n", cfg.OutputDir, result.Pages, result.Assets)
	if err != nil {
		return fmt.Errorf("pages were written without content: %w", err)
	}
	return nil
}
