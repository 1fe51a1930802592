package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo describes one file of a site.
type FileInfo struct {
	Path    string // Absolute path on disk.
	RelPath string // Slash-separated path relative to the site root.
	Size    int64  // File size in bytes.
	IsPage  bool   // Whether the file is an HTML page to hydrate.
}

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir string   // Site root to walk.
	Include []string // Glob patterns selecting pages to hydrate.
	Exclude []string // Glob patterns removed from the site entirely.
	SkipDir string   // Directory never descended into, typically the build output.
}

// Walk traverses the site rooted at config.RootDir and returns every file
// that is not excluded. Files matching an include pattern and carrying an
// .html/.htm extension are flagged as pages; the rest are assets to copy.
// Entries matched by the site's .gitignore are skipped.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	var skipDir string
	if config.SkipDir != "" {
		if skipDir, err = filepath.Abs(config.SkipDir); err != nil {
			return nil, fmt.Errorf("walker: resolve skip dir: %w", err)
		}
	}

	gitignorePatterns := loadGitignore(filepath.Join(root, ".gitignore"))

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if path == skipDir || IsExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if matchesGitignore(relPath, gitignorePatterns) {
			return nil
		}
		if MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			RelPath: relPath,
			Size:    info.Size(),
			IsPage:  isHTML(relPath) && MatchesInclude(relPath, config.Include),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return files, nil
}

// Pages filters files down to those flagged as pages.
func Pages(files []FileInfo) []FileInfo {
	var pages []FileInfo
	for _, f := range files {
		if f.IsPage {
			pages = append(pages, f)
		}
	}
	return pages
}

func isHTML(relPath string) bool {
	ext := strings.ToLower(filepath.Ext(relPath))
	return ext == ".html" || ext == ".htm"
}

// loadGitignore reads a .gitignore file and returns its non-empty,
// non-comment lines as patterns.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore checks if a relative path matches any gitignore pattern.
func matchesGitignore(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.Trim(pattern, "/")

		if !strings.Contains(pattern, "/") {
			parts := strings.Split(relPath, "/")
			for i, part := range parts {
				matched, _ := filepath.Match(pattern, part)
				if !matched {
					continue
				}
				// A directory-only pattern cannot match the file itself.
				if dirOnly && i == len(parts)-1 {
					continue
				}
				return true
			}
		} else if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}
