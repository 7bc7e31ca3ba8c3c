package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands paths and glob patterns (with ** support) into the
// input files the registry can read. A plain directory is a CSV bundle
// when it holds CSV files; otherwise its workbooks are collected
// recursively. Office lock files (~$*) are skipped. The result is sorted
// and free of duplicates.
func (r *Registry) Discover(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		paths, err := r.resolve(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, p := range paths {
			add(p)
		}
	}

	sort.Strings(out)
	return out, nil
}

func (r *Registry) resolve(pattern string) ([]string, error) {
	workbooksOnly := false
	if !containsGlob(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return []string{filepath.Clean(pattern)}, nil
		}
		if csvs, _ := filepath.Glob(filepath.Join(pattern, "*.csv")); len(csvs) > 0 {
			return []string{filepath.Clean(pattern)}, nil
		}
		pattern = filepath.Join(pattern, "**", "*")
		workbooksOnly = true
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), "~$") {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if r.ReaderFor(m) == nil {
			continue
		}
		if workbooksOnly && strings.EqualFold(filepath.Ext(m), ".csv") {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
