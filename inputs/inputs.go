// Package inputs resolves command line arguments into the list of
// files to split. Arguments may be plain paths, directories, or
// doublestar glob patterns; directories are scanned for RDF files,
// descending into subdirectories only when requested.
package inputs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/geoknoesis/rdfsplit/rdf"
)

// Expand resolves every argument to concrete file paths, in argument
// order with duplicates dropped. Explicitly named files are kept as
// given, even with an unrecognized extension, so the split reports
// them instead of silently skipping; a directory scan collects only
// files whose extension maps to a known format, descending into
// subdirectories when recursive is set. A pattern matching nothing is
// logged as a warning and skipped. Nil logger means slog.Default().
func Expand(args []string, recursive bool, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var out []string
	seen := map[string]bool{}
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		if isPattern(arg) {
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				logger.Warn("no files matched pattern", "pattern", arg)
				continue
			}
			for _, match := range matches {
				if err := resolve(match, add, false, recursive); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := resolve(arg, add, true, recursive); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// resolve adds one path, scanning it when it is a directory. explicit
// marks paths the user named directly rather than via a glob match.
func resolve(path string, add func(string), explicit, recursive bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if !explicit {
			if _, err := rdf.FormatForPath(path); err != nil {
				return nil
			}
		}
		add(path)
		return nil
	}
	if !recursive {
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := filepath.Join(path, entry.Name())
			if _, err := rdf.FormatForPath(name); err != nil {
				continue
			}
			add(name)
		}
		return nil
	}
	return filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, err := rdf.FormatForPath(entry); err != nil {
			return nil
		}
		add(entry)
		return nil
	})
}
