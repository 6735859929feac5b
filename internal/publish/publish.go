package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"stationtree/internal/model"
)

type WriteOptions struct {
	Title      string
	IncludeIDs bool
	Overwrite  bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteStations writes index.md for the document and one page per station
// under stations/<id>.md.
func WriteStations(stations *model.Stations, toDir string, opt WriteOptions) (WriteResult, error) {
	if stations == nil {
		return WriteResult{}, errors.New("missing document")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	pagesDir := filepath.Join(toDir, "stations")
	if err := os.MkdirAll(pagesDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	ropt := RenderOptions{IncludeIDs: opt.IncludeIDs}
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderDocumentMarkdown(opt.Title, stations, ropt)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on first error.
	written := []string{indexPath}
	for st := range stations.Children() {
		p := filepath.Join(pagesDir, safeFileName(st.ID())+".md")
		if err := writeFile(p, []byte(RenderEntityMarkdown(st, ropt)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func safeFileName(id string) string {
	id = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, strings.TrimSpace(id))
	if id == "" || id == "." || id == ".." {
		return "_"
	}
	return id
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
