// Package scanner discovers session transcript files on disk and watches
// them for changes.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-claude-trim/internal/util"
)

// FileScanner scans a projects directory for session transcripts.
type FileScanner struct {
	baseDir string
}

// NewFileScanner creates a new FileScanner instance.
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
	}
}

// Scan walks the base directory and returns all .jsonl transcript paths,
// most recently modified first. Sub-agent session files live under
// "subagents" subtrees and are internal host processes, not user sessions;
// they are excluded.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()

	type candidate struct {
		path    string
		modTime int64
	}
	var found []candidate
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.baseDir {
				return err
			}
			util.LogDebug(fmt.Sprintf("Skip path (error): %s - %v", path, err))
			return nil
		}

		if d.IsDir() {
			if d.Name() == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}

		totalCount++
		if !strings.HasSuffix(strings.ToLower(path), ".jsonl") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (stat error): %s - %v", path, err))
			return nil
		}
		found = append(found, candidate{path: path, modTime: info.ModTime().UnixNano()})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("projects directory not found: %s", s.baseDir)
		}
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].modTime > found[j].modTime
	})

	files := make([]string, len(found))
	for i, c := range found {
		files[i] = c.path
	}

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d files, found %d transcripts",
		time.Since(start), totalCount, len(files)))

	return files, nil
}
