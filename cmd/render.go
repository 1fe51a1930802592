package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagehydrate/internal/hydrate"
)

var renderCmd = &cobra.Command{
	Use:   "render PAGE",
	Short: "Hydrate a single page",
	Long: `Hydrates one HTML page against the content document and writes the
result to stdout or --out. If the content cannot be loaded the page is
written unchanged; --strict also makes the command fail.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("content", "", "content document path or URL (overrides content_source)")
	renderCmd.Flags().StringP("out", "o", "", "write the page to this file instead of stdout")
	renderCmd.Flags().Bool("strict", false, "exit non-zero when the content cannot be loaded")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	location, _ := cmd.Flags().GetString("content")
	out, _ := cmd.Flags().GetString("out")
	strict, _ := cmd.Flags().GetBool("strict")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening page: %w", err)
	}
	p, err := hydrate.ParsePage(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	h, src := newHydrator(cfg, location, logger)
	_, runErr := h.Run(cmd.Context(), p, src)
	if runErr != nil && !errors.Is(runErr, hydrate.ErrContentUnavailable) {
		return runErr
	}

	html, err := p.HTML()
	if err != nil {
		return fmt.Errorf("rendering %s: %w", args[0], err)
	}

	if out == "" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), html); err != nil {
			return err
		}
	} else if err := atomic.WriteFile(out, strings.NewReader(html)); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	if strict {
		return runErr
	}
	return nil
}
