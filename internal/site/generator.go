package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ziadkadry99/pagehydrate/internal/content"
	"github.com/ziadkadry99/pagehydrate/internal/fetch"
	"github.com/ziadkadry99/pagehydrate/internal/hydrate"
	"github.com/ziadkadry99/pagehydrate/internal/progress"
	"github.com/ziadkadry99/pagehydrate/internal/walker"
)

// SiteGenerator hydrates every page of a site into an output directory.
type SiteGenerator struct {
	SiteDir   string
	OutputDir string
	Include   []string
	Exclude   []string

	Hydrator *hydrate.Hydrator
	Source   fetch.Source
	Reporter progress.Reporter
	Logger   *slog.Logger
}

// BuildResult summarises one build.
type BuildResult struct {
	Pages     int  // Pages written.
	Assets    int  // Non-page files copied.
	Hydrated  bool // False when the content document could not be loaded.
	Populated int  // Elements populated across all pages.
}

// Generate builds the site. The content document is loaded once; if that
// fails every page is still written in its authored state and the returned
// error wraps hydrate.ErrContentUnavailable.
func (g *SiteGenerator) Generate(ctx context.Context) (BuildResult, error) {
	var result BuildResult
	logger := g.logger()

	if err := checkOutputDir(g.SiteDir, g.OutputDir); err != nil {
		return result, err
	}

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: g.SiteDir,
		Include: g.Include,
		Exclude: g.Exclude,
		SkipDir: g.OutputDir,
	})
	if err != nil {
		return result, fmt.Errorf("scanning site: %w", err)
	}

	pages := walker.Pages(files)
	if len(pages) == 0 {
		return result, fmt.Errorf("no pages found in %s", g.SiteDir)
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return result, err
	}

	doc, loadErr := g.Source.Load(ctx)
	if loadErr != nil {
		logger.Error("could not load site content", "source", g.Source.Location(), "error", loadErr)
		loadErr = fmt.Errorf("%w: %w", hydrate.ErrContentUnavailable, loadErr)
	}
	result.Hydrated = loadErr == nil

	reporter := g.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	reporter.Start(len(pages))

	done := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			reporter.Finish()
			return result, err
		}

		outPath := filepath.Join(g.OutputDir, filepath.FromSlash(f.RelPath))
		if !f.IsPage {
			if err := copyFile(f.Path, outPath); err != nil {
				reporter.Finish()
				return result, fmt.Errorf("copying %s: %w", f.RelPath, err)
			}
			result.Assets++
			continue
		}

		populated, err := g.renderPage(f, outPath, doc)
		if err != nil {
			reporter.Finish()
			return result, fmt.Errorf("rendering %s: %w", f.RelPath, err)
		}
		result.Pages++
		result.Populated += populated

		done++
		reporter.Update(done, f.RelPath)
	}
	reporter.Finish()

	logger.Info("build complete",
		"pages", result.Pages,
		"assets", result.Assets,
		"hydrated", result.Hydrated,
		"output", g.OutputDir,
	)
	return result, loadErr
}

// renderPage hydrates one page with doc (skipped when nil) and writes it.
func (g *SiteGenerator) renderPage(f walker.FileInfo, outPath string, doc *content.Document) (int, error) {
	src, err := os.Open(f.Path)
	if err != nil {
		return 0, err
	}
	p, err := hydrate.ParsePage(src)
	src.Close()
	if err != nil {
		return 0, err
	}

	populated := 0
	if doc != nil {
		stats := g.Hydrator.Hydrate(p, doc)
		populated = stats.Populated()
	}

	html, err := p.HTML()
	if err != nil {
		return 0, err
	}
	if err := writeFile(outPath, html); err != nil {
		return 0, err
	}
	return populated, nil
}

// checkOutputDir refuses an output directory that is the site itself;
// writing there would replace the authored pages.
func checkOutputDir(siteDir, outputDir string) error {
	site, err := filepath.Abs(siteDir)
	if err != nil {
		return fmt.Errorf("resolving site dir: %w", err)
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("resolving output dir: %w", err)
	}
	if site == out {
		return fmt.Errorf("output dir %s is the site dir; refusing to overwrite authored pages", outputDir)
	}
	return nil
}

func (g *SiteGenerator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return g.Logger
}

// writeFile replaces path atomically, creating parent directories.
func writeFile(path, data string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, strings.NewReader(data))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(dst, in)
}

// IsContentUnavailable reports whether err came from a failed content load.
func IsContentUnavailable(err error) bool {
	return errors.Is(err, hydrate.ErrContentUnavailable)
}
