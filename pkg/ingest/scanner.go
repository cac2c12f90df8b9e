// Package ingest walks directory trees of Excel workbooks and turns their
// rows into canonical inventory items. The pipeline is idempotent per file
// content hash, so re-running over the same tree only picks up new or
// changed workbooks.
package ingest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/karrick/godirwalk"

	"github.com/stockyardhq/stockyard/pkg/errors"
)

// SourceFile is a workbook discovered by Scan, identified by the MD5 of its
// content.
type SourceFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Hash    string
}

// SkippedFile records a file Scan declined to process and why.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Filename fragments that mark throwaway workbooks. Matched case-insensitively
// as substrings of the base name.
var skipPatterns = []string{
	"template",
	"backup",
	"copy",
	"old",
	"test",
	"temp",
	"draft",
	"sample",
	"example",
}

// Scan walks root recursively and returns every processable workbook in
// lexical order, plus the files it skipped. Legacy .xls workbooks are
// reported as skipped rather than failed since only the OOXML format is
// readable.
func Scan(ctx context.Context, root string) ([]SourceFile, []SkippedFile, error) {
	var (
		files   []SourceFile
		skipped []SkippedFile
	)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if de.IsDir() {
				// Excel lock files live in hidden dirs on some shares.
				if name := de.Name(); name != "." && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}

			name := de.Name()
			ext := strings.ToLower(filepath.Ext(name))
			switch ext {
			case ".xlsx", ".xlsm":
			case ".xls":
				skipped = append(skipped, SkippedFile{Path: path, Reason: "legacy .xls format"})
				return nil
			default:
				return nil
			}

			if strings.HasPrefix(name, "~$") {
				// Excel owner lock file, not a workbook.
				return nil
			}
			if reason := matchSkipPattern(name); reason != "" {
				skipped = append(skipped, SkippedFile{Path: path, Reason: reason})
				return nil
			}

			info, err := os.Stat(path)
			if err != nil {
				return errors.WrapIO("stat", path, err)
			}
			hash, err := hashFile(path)
			if err != nil {
				return err
			}

			files = append(files, SourceFile{
				Path:    path,
				Name:    name,
				Size:    info.Size(),
				ModTime: info.ModTime(),
				Hash:    hash,
			})
			return nil
		},
		Unsorted:            false,
		FollowSymbolicLinks: false,
	})
	if err != nil {
		return nil, nil, errors.WrapIO("scan", root, err)
	}
	return files, skipped, nil
}

func matchSkipPattern(name string) string {
	lower := strings.ToLower(name)
	for _, pattern := range skipPatterns {
		if strings.Contains(lower, pattern) {
			return "filename matches skip pattern " + pattern
		}
	}
	return ""
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WrapIO("open", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.WrapIO("hash", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
