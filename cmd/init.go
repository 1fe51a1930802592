package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagehydrate/internal/config"
	"github.com/ziadkadry99/pagehydrate/internal/fetch"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pagehydrate configuration with an interactive wizard",
	Long: `Runs an interactive wizard to configure pagehydrate for your site and
writes the result to the --config path (.pagehydrate.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		printInitSummary(cmd.OutOrStdout(), cfgFile, cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// printInitSummary tells the user where the config went and what to run next.
func printInitSummary(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintf(w, "\nConfiguration saved to %s\n", path)
	fmt.Fprintf(w, "  site:    %s\n", cfg.SiteDir)
	fmt.Fprintf(w, "  content: %s", cfg.ContentSource)
	if _, err := os.Stat(cfg.ContentSource); err != nil && !fetch.IsRemote(cfg.ContentSource) {
		fmt.Fprint(w, " (not found yet)")
	}
	fmt.Fprintf(w, "\n  output:  %s\n", cfg.OutputDir)
	fmt.Fprintln(w, "\nNext: `pagehydrate serve` to preview, `pagehydrate build` to publish.")
}
