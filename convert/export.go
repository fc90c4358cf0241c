package convert

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"e2n/enex"
	"e2n/enml"
	"e2n/notion"
	"e2n/state"
)

// processExport converts every note of a single export. "src" is part of the
// source path (always including file name) relative to the original path - it
// drives output directory layout. A note that fails to convert is logged and
// does not stop the rest of the export, failures are aggregated into the
// returned error.
func processExport(ctx context.Context, r io.Reader, src, dst string, log *zap.Logger) error {
	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("from", src))
	}(time.Now())

	export, err := enex.Parse(r, log)
	if err != nil {
		return fmt.Errorf("unable to parse export (%s): %w", src, err)
	}
	if len(export.Notes) == 0 {
		log.Debug("Export has no notes", zap.String("from", src))
		return nil
	}

	var errs error
	for i := range export.Notes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := processNote(ctx, &export.Notes[i], src, dst, log); err != nil {
			log.Error("Unable to convert note",
				zap.String("from", src), zap.String("title", export.Notes[i].Title), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("note %q: %w", export.Notes[i].Title, err))
		}
	}
	return errs
}

// processNote converts a single note to a block document and writes it out.
func processNote(ctx context.Context, note *enex.Note, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string
	defer func(start time.Time) {
		// one broken note must not take the whole run down
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("title", note.Title), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Note converted",
				zap.Duration("elapsed", time.Since(start)), zap.String("title", note.Title), zap.String("to", outputName))
		}
	}(time.Now())

	conv := enml.NewConverter(resolverFor(note, env.Cfg.Document.ResourceBaseURL), log)
	blocks, diags, err := conv.Convert(note.Content)
	if err != nil {
		return fmt.Errorf("unable to convert note content: %w", err)
	}
	for _, d := range diags {
		log.Debug("Conversion diagnostic", zap.String("title", note.Title), zap.String("tag", d.Tag), zap.String("message", d.Message))
	}

	normalized := notion.NormalizeBlocks(blocks)
	violations := notion.Validate(normalized)
	for _, v := range violations {
		log.Warn("Block limit violation", zap.String("title", note.Title), zap.String("path", v.Path), zap.String("reason", v.Reason))
	}

	doc := newDocument(note, notion.SplitBlocks(normalized), diags, violations)

	outputName = buildOutputPath(note.Title, src, dst, env)
	if err := writeDocument(doc, outputName, env); err != nil {
		return err
	}

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s.json", doc.ID), outputName)
	}
	return nil
}

// resolverFor builds the hash lookup the converter consumes from note
// attachments. With a configured resource base URL attachments resolve to
// stable content-addressed links, otherwise they stay pending and render as
// placeholders.
func resolverFor(note *enex.Note, baseURL string) enml.ResourceMap {
	m := make(enml.ResourceMap, len(note.Resources))
	for i := range note.Resources {
		res := &note.Resources[i]
		entry := &enml.Resource{Hash: res.Hash, Mime: res.Mime, Filename: res.Filename}
		if len(baseURL) > 0 {
			entry.URL = strings.TrimSuffix(baseURL, "/") + "/" + res.Hash + "." + res.Extension()
		}
		m[res.Hash] = entry
	}
	return m
}
