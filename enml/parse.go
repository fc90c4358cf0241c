package enml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// ErrUnparsable marks the one fatal conversion outcome: a document so
// broken that no element tree could be produced at all. Per-element
// irregularities never surface as errors - they degrade to fallback output.
var ErrUnparsable = errors.New("unparsable document")

var cdataRe = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)

// stripCDATA extracts the real markup from a CDATA envelope if one is
// present. Export files store note content this way.
func stripCDATA(in string) string {
	if m := cdataRe.FindStringSubmatch(in); m != nil {
		return m[1]
	}
	return in
}

// parseDocument turns a markup string into an element tree and locates the
// container element whose children are the top level content. When the
// en-note wrapper is missing the whole document acts as the container.
func parseDocument(content string) (*etree.Document, *etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.AutoClose = xml.HTMLAutoClose
	doc.ReadSettings.Entity = xml.HTMLEntity

	if err := doc.ReadFromString(stripCDATA(content)); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnparsable, err)
	}

	if note := findNoteRoot(&doc.Element); note != nil {
		return doc, note, nil
	}
	// No wrapper - treat the whole document as the root's children.
	return doc, &doc.Element, nil
}

func findNoteRoot(el *etree.Element) *etree.Element {
	for _, node := range el.Child {
		child, ok := node.(*etree.Element)
		if !ok {
			continue
		}
		if strings.EqualFold(child.Tag, "en-note") {
			return child
		}
		if found := findNoteRoot(child); found != nil {
			return found
		}
	}
	return nil
}
