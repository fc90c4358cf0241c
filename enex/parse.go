package enex

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// XML parsing for the Evernote export format. A broken note or resource is
// logged and skipped - one bad entry must never lose the rest of the
// export. Only a document without a usable <en-export> root is fatal.

// evernoteTimeLayout is the timestamp format used by exports.
const evernoteTimeLayout = "20060102T150405Z"

// ParseFile reads and parses an export file.
func ParseFile(path string, log *zap.Logger) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open export: %w", err)
	}
	defer f.Close()
	return Parse(f, log)
}

// Parse parses an export from r.
func Parse(r io.Reader, log *zap.Logger) (*Export, error) {
	if log == nil {
		log = zap.NewNop()
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.CharsetReader = charsetReader

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse export: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("export has no root element")
	}
	if !strings.EqualFold(root.Tag, "en-export") {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	export := &Export{}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "note":
			note := parseNote(child, log)
			export.Notes = append(export.Notes, note)
		default:
			log.Warn("Unexpected tag in en-export, ignoring", zap.String("tag", child.Tag))
		}
	}
	return export, nil
}

// charsetReader decodes non UTF-8 exports using IANA charset names.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

func parseNote(el *etree.Element, log *zap.Logger) Note {
	note := Note{Title: "Untitled"}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "title":
			if title := strings.TrimSpace(child.Text()); len(title) > 0 {
				note.Title = title
			}
		case "content":
			note.Content = child.Text()
		case "created":
			note.Created = parseTimestamp(child.Text(), log)
		case "updated":
			note.Updated = parseTimestamp(child.Text(), log)
		case "tag":
			if tag := strings.TrimSpace(child.Text()); len(tag) > 0 {
				note.Tags = append(note.Tags, tag)
			}
		case "note-attributes":
			parseNoteAttributes(child, &note, log)
		case "resource":
			if res, ok := parseResource(child, log); ok {
				note.Resources = append(note.Resources, res)
			}
		default:
			log.Warn("Unexpected tag in note, ignoring", zap.String("tag", child.Tag))
		}
	}
	if note.Updated.IsZero() {
		note.Updated = note.Created
	}
	return note
}

func parseNoteAttributes(el *etree.Element, note *Note, _ *zap.Logger) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "author":
			note.Author = strings.TrimSpace(child.Text())
		case "source":
			note.Source = strings.TrimSpace(child.Text())
		case "source-url":
			note.SourceURL = strings.TrimSpace(child.Text())
		}
		// other attributes carry no information we preserve
	}
}

func parseResource(el *etree.Element, log *zap.Logger) (Resource, bool) {
	res := Resource{}

	data := el.SelectElement("data")
	if data == nil || len(strings.TrimSpace(data.Text())) == 0 {
		log.Warn("Resource without data, skipping")
		return res, false
	}
	if enc := data.SelectAttrValue("encoding", "base64"); enc != "base64" {
		log.Warn("Unsupported resource encoding, skipping", zap.String("encoding", enc))
		return res, false
	}

	decoded, err := base64.StdEncoding.DecodeString(normalizeBase64(data.Text()))
	if err != nil {
		log.Warn("Unable to decode resource data, skipping", zap.Error(err))
		return res, false
	}
	res.Data = decoded

	// ENML media references match on the MD5 of the decoded content.
	sum := md5.Sum(decoded)
	res.Hash = hex.EncodeToString(sum[:])

	res.Mime = "application/octet-stream"
	if mime := el.SelectElement("mime"); mime != nil {
		if v := strings.TrimSpace(mime.Text()); len(v) > 0 {
			res.Mime = v
		}
	}
	if width := el.SelectElement("width"); width != nil {
		if v, err := strconv.Atoi(strings.TrimSpace(width.Text())); err == nil {
			res.Width = v
		}
	}
	if height := el.SelectElement("height"); height != nil {
		if v, err := strconv.Atoi(strings.TrimSpace(height.Text())); err == nil {
			res.Height = v
		}
	}
	if attrs := el.SelectElement("resource-attributes"); attrs != nil {
		if fn := attrs.SelectElement("file-name"); fn != nil {
			res.Filename = strings.TrimSpace(fn.Text())
		}
		if su := attrs.SelectElement("source-url"); su != nil {
			res.SourceURL = strings.TrimSpace(su.Text())
		}
	}

	probeResource(&res, log)
	return res, true
}

func parseTimestamp(in string, log *zap.Logger) time.Time {
	value := strings.TrimSpace(in)
	if len(value) == 0 {
		return time.Time{}
	}
	if t, err := time.Parse(evernoteTimeLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	log.Warn("Unable to parse note timestamp", zap.String("value", value))
	return time.Time{}
}

func normalizeBase64(input string) string {
	var builder strings.Builder
	builder.Grow(len(input))
	for _, r := range input {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
		default:
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
