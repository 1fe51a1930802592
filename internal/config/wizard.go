package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
)

// contentCandidates are places a site commonly keeps its content document,
// checked in order.
var contentCandidates = []string{
	"public/content.json",
	"content.json",
	"static/content.json",
	"data/content.json",
}

// detectContentSource returns the first existing content document under
// siteDir, relative to the working directory.
func detectContentSource(siteDir string) string {
	for _, candidate := range contentCandidates {
		path := filepath.Join(siteDir, candidate)
		if _, err := os.Stat(path); err == nil {
			return filepath.ToSlash(path)
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pagehydrate! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site directory.
	sitePrompt := promptui.Prompt{
		Label:   "Site directory containing your HTML pages",
		Default: cfg.SiteDir,
	}
	siteDir, err := sitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site dir: %w", err)
	}
	cfg.SiteDir = siteDir

	// 2. Content document.
	defaultSource := detectContentSource(siteDir)
	if defaultSource != "" {
		fmt.Printf("Detected content document: %s\n\n", defaultSource)
	} else {
		defaultSource = filepath.ToSlash(filepath.Join(siteDir, cfg.ContentSource))
	}
	sourcePrompt := promptui.Prompt{
		Label:   "Content document (file path or http(s) URL)",
		Default: defaultSource,
	}
	source, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content source: %w", err)
	}
	cfg.ContentSource = source

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for hydrated pages",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	// 4. Dev server port.
	portPrompt := promptui.Prompt{
		Label:   "Port for `pagehydrate serve`",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 || n > 65535 {
				return fmt.Errorf("enter a port between 0 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. Live reload.
	reloadPrompt := promptui.Select{
		Label: "Reload the browser when files change while serving?",
		Items: []string{"yes", "no"},
	}
	reloadIdx, _, err := reloadPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("live reload: %w", err)
	}
	cfg.Server.LiveReload = reloadIdx == 0

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	return cfg, nil
}
