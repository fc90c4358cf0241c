package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"e2n/config"
	"e2n/enex"
	"e2n/enml"
	"e2n/notion"
	"e2n/state"
)

// Document is what one note becomes: page metadata plus block batches sized
// for the Notion API, ready for a downstream transmitter. Diagnostics and
// violations are carried along so nothing discovered during conversion is
// lost.
type Document struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Created     time.Time          `json:"created"`
	Updated     time.Time          `json:"updated"`
	Tags        []string           `json:"tags,omitempty"`
	Author      string             `json:"author,omitempty"`
	SourceURL   string             `json:"source_url,omitempty"`
	Batches     [][]notion.Block   `json:"batches"`
	Diagnostics []enml.Diagnostic  `json:"diagnostics,omitempty"`
	Violations  []notion.Violation `json:"violations,omitempty"`
}

func newDocument(note *enex.Note, batches [][]notion.Block, diags []enml.Diagnostic, violations []notion.Violation) *Document {
	return &Document{
		ID:          uuid.NewString(),
		Title:       note.Title,
		Created:     note.Created,
		Updated:     note.Updated,
		Tags:        note.Tags,
		Author:      note.Author,
		SourceURL:   note.SourceURL,
		Batches:     batches,
		Diagnostics: diags,
		Violations:  violations,
	}
}

// buildOutputPath returns constructed output file path/name derived from the
// note title. It takes into account whether to preserve source directory
// structure on the output and whether file names should be slugified.
func buildOutputPath(title, src, dst string, env *state.LocalEnv) string {
	outDir := dst
	if !env.NoDirs {
		outDir = filepath.Join(dst, filepath.Dir(src))
	}

	base := title
	if env.Cfg.Document.SlugifyFileNames {
		base = slug.Make(base)
	}
	return filepath.Join(outDir, config.CleanFileName(base)+".json")
}

// writeDocument serializes the document to its output location, respecting
// the overwrite flag.
func writeDocument(doc *Document, outputName string, env *state.LocalEnv) error {
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		env.Log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if env.Cfg.Document.PrettyJSON {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("unable to marshal document: %w", err)
	}

	if err := os.WriteFile(outputName, data, 0644); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	return nil
}
