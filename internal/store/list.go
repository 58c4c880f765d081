package store

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"github.com/petasbytes/codetour-mcp/internal/telemetry"
)

// Entry is the listing view of one tour file.
type Entry struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StepCount   int    `json:"stepCount"`
}

// List summarises every *.tour file directly inside dir, in name order.
// A missing dir yields an empty list. Files that cannot be read or are not
// JSON objects are skipped (and logged) so one bad file does not hide the rest.
func List(ctx context.Context, dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, err
	}

	out := []Entry{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		entry, err := readEntry(path)
		if err != nil {
			telemetry.Emit(ctx, slog.LevelWarn, "tour_skipped", "path", path, "error", err.Error())
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

var errNotObject = errors.New("not a JSON object")

// readEntry pulls the header fields without decoding the steps.
func readEntry(path string) (Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	clean := jsonc.ToJSON(b)
	if !gjson.ValidBytes(clean) || !gjson.ParseBytes(clean).IsObject() {
		return Entry{}, errNotObject
	}
	res := gjson.GetManyBytes(clean, "title", "description", "steps.#")
	return Entry{
		Path:        path,
		Title:       res[0].String(),
		Description: res[1].String(),
		StepCount:   int(res[2].Int()),
	}, nil
}
