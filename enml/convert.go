// Package enml converts Evernote markup (ENML) into Notion API blocks.
//
// Conversion is a single pass recursive walk over the element tree: block
// level tags map to blocks, inline tags accumulate annotations on text runs,
// media references resolve through a Resolver. It is a pure function of
// (markup, resource map) - no I/O, no shared state - so concurrent
// conversions of different documents are safe.
package enml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"e2n/notion"
)

// Diagnostic records one non-fatal irregularity absorbed during conversion.
type Diagnostic struct {
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return d.Tag + ": " + d.Message
}

// Converter turns ENML strings into block lists. Safe for concurrent use as
// long as the resolver's backing data is not mutated during conversions.
type Converter struct {
	resolver Resolver
	log      *zap.Logger
}

// NewConverter creates a converter using the given resolver for media
// references. A nil resolver resolves nothing - every reference degrades to
// the missing-resource placeholder.
func NewConverter(resolver Resolver, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	if resolver == nil {
		resolver = ResourceMap(nil)
	}
	return &Converter{resolver: resolver, log: log.Named("enml")}
}

// Convert parses content and produces the raw (not yet size-split) block
// list plus diagnostics for everything that degraded to fallback output.
// The only error returned wraps ErrUnparsable - anything less than a wholly
// broken document yields partial blocks instead.
func (c *Converter) Convert(content string) ([]notion.Block, []Diagnostic, error) {
	_, root, err := parseDocument(content)
	if err != nil {
		return nil, nil, err
	}

	w := &walker{resolver: c.resolver, log: c.log}

	var blocks []notion.Block
	for _, node := range root.Child {
		switch token := node.(type) {
		case *etree.CharData:
			// Text outside of any tag becomes its own paragraph.
			if text := strings.TrimSpace(token.Data); len(text) > 0 {
				blocks = append(blocks, notion.NewParagraph([]notion.RichText{notion.Text(text)}))
			}
		case *etree.Element:
			blocks = append(blocks, w.convertElement(token)...)
		}
	}

	// A note is never empty - the API rejects pages without content.
	if len(blocks) == 0 {
		blocks = append(blocks, notion.NewParagraph([]notion.RichText{notion.Text("")}))
	}
	return blocks, w.diags, nil
}

// walker carries per-conversion state: the resolver, the diagnostics
// accumulated so far and nothing else. Block and run lists are built fresh
// in every call frame, never shared between sibling subtrees.
type walker struct {
	resolver Resolver
	log      *zap.Logger
	diags    []Diagnostic
}

func (w *walker) diag(tag, format string, args ...any) {
	w.diags = append(w.diags, Diagnostic{Tag: tag, Message: fmt.Sprintf(format, args...)})
}

func (w *walker) convertElement(el *etree.Element) []notion.Block {
	tag := strings.ToLower(el.Tag)
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return w.convertHeading(el, tag)
	case "div", "p":
		return w.convertParagraph(el)
	case "ul":
		return w.convertList(el, false)
	case "ol":
		return w.convertList(el, true)
	case "br":
		// handled inside inline extraction, contributes no block
		return nil
	case "hr":
		return []notion.Block{notion.NewDivider()}
	case "blockquote":
		return []notion.Block{notion.NewQuote(w.extractRichText(el, false))}
	case "table":
		return w.convertTable(el)
	case "en-media":
		return w.convertMedia(el)
	case "en-todo":
		return w.convertTodo(el)
	case "tbody", "colgroup", "col", "en-note":
		// structural only, content handled by parents
		return nil
	default:
		runs := w.extractRichText(el, false)
		if runsBlank(runs) {
			w.log.Debug("Dropping empty unknown tag", zap.String("tag", el.Tag))
			return nil
		}
		w.log.Warn("Unknown tag, converting to paragraph", zap.String("tag", el.Tag))
		w.diag(tag, "unknown tag converted to paragraph")
		return []notion.Block{notion.NewParagraph(runs)}
	}
}

func (w *walker) convertHeading(el *etree.Element, tag string) []notion.Block {
	level := int(tag[1] - '0')
	if level > 3 {
		// Only three heading levels exist downstream - collapse deeper ones
		// to level 3 and bold every run to keep the visual hierarchy.
		return []notion.Block{notion.NewHeading(3, w.extractRichText(el, true))}
	}
	return []notion.Block{notion.NewHeading(level, w.extractRichText(el, false))}
}

// blockLevelTag reports tags that force a div/p container to become
// transparent instead of producing a paragraph of its own.
func blockLevelTag(tag string) bool {
	switch tag {
	case "ul", "ol", "table", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "hr":
		return true
	}
	return false
}

func (w *walker) convertParagraph(el *etree.Element) []notion.Block {
	transparent := false
	for _, child := range el.ChildElements() {
		if blockLevelTag(strings.ToLower(child.Tag)) {
			transparent = true
			break
		}
	}
	if transparent {
		// Container only wraps block level content - splice converted
		// children into the parent's output and emit no paragraph.
		var blocks []notion.Block
		for _, child := range el.ChildElements() {
			blocks = append(blocks, w.convertElement(child)...)
		}
		return blocks
	}

	runs := w.extractRichText(el, false)
	if runsBlank(runs) {
		if hasDescendant(el, "br") {
			// <div><br/></div> is Evernote's empty line - keep it.
			return []notion.Block{notion.NewParagraph([]notion.RichText{notion.Text("")})}
		}
		return nil
	}
	return []notion.Block{notion.NewParagraph(runs)}
}

func (w *walker) convertList(el *etree.Element, ordered bool) []notion.Block {
	var blocks []notion.Block
	for _, li := range el.ChildElements() {
		if !strings.EqualFold(li.Tag, "li") {
			continue
		}
		runs := w.extractRichText(li, false)

		// Lists nested directly inside the item become its children.
		var children []notion.Block
		for _, nested := range li.ChildElements() {
			switch strings.ToLower(nested.Tag) {
			case "ul":
				children = append(children, w.convertList(nested, false)...)
			case "ol":
				children = append(children, w.convertList(nested, true)...)
			}
		}

		if ordered {
			blocks = append(blocks, notion.NewNumberedListItem(runs, children))
		} else {
			blocks = append(blocks, notion.NewBulletedListItem(runs, children))
		}
	}
	return blocks
}

func (w *walker) convertTable(el *etree.Element) []notion.Block {
	rows := findDescendants(el, "tr")
	if len(rows) == 0 {
		return nil
	}

	firstCells := findDescendants(rows[0], "td", "th")
	columns := len(firstCells)
	if columns == 0 {
		return nil
	}
	hasHeader := len(findDescendants(rows[0], "th")) > 0

	rowBlocks := make([]notion.Block, 0, len(rows))
	for _, row := range rows {
		cells := findDescendants(row, "td", "th")
		// First row fixes the width: short rows are padded with empty
		// runs, extra cells are dropped.
		cellRuns := make([][]notion.RichText, 0, columns)
		for i := range columns {
			if i < len(cells) {
				cellRuns = append(cellRuns, w.extractRichText(cells[i], false))
			} else {
				cellRuns = append(cellRuns, []notion.RichText{notion.Text("")})
			}
		}
		if len(cells) > columns {
			w.diag("table", "row has %d cells, table width is %d, extra cells dropped", len(cells), columns)
		}
		rowBlocks = append(rowBlocks, notion.NewTableRow(cellRuns))
	}
	return []notion.Block{notion.NewTable(columns, hasHeader, rowBlocks)}
}

func (w *walker) convertMedia(el *etree.Element) []notion.Block {
	hash := el.SelectAttrValue("hash", "")
	mime := el.SelectAttrValue("type", "")
	if len(hash) == 0 {
		w.log.Warn("Media reference without hash, ignoring")
		w.diag("en-media", "media reference without hash")
		return nil
	}

	res, ok := w.resolver.Lookup(hash)
	if !ok {
		w.log.Warn("Unresolved media reference", zap.String("hash", hash))
		w.diag("en-media", "missing resource %s", hash)
		return []notion.Block{notion.NewParagraph([]notion.RichText{
			notion.Text(fmt.Sprintf("[Missing resource: %s]", hash)),
		})}
	}
	if len(res.URL) == 0 {
		name := res.Filename
		if len(name) == 0 {
			name = hash
		}
		w.diag("en-media", "resource %s pending upload", name)
		return []notion.Block{notion.NewParagraph([]notion.RichText{
			notion.Text(fmt.Sprintf("[Resource pending upload: %s]", name)),
		})}
	}

	switch {
	case strings.HasPrefix(mime, "image/"):
		return []notion.Block{notion.NewImage(res.URL)}
	case mime == "application/pdf":
		return []notion.Block{notion.NewPDF(res.URL)}
	default:
		return []notion.Block{notion.NewFile(res.URL)}
	}
}

// convertTodo builds a to_do block. The task text comes from the marker's
// immediately following sibling - the marker itself is empty and Evernote
// puts the text right after it. Deeper searches are deliberately not
// attempted.
func (w *walker) convertTodo(el *etree.Element) []notion.Block {
	checked := el.SelectAttrValue("checked", "") == "true"

	text := ""
	switch sib := nextSibling(el).(type) {
	case *etree.CharData:
		text = strings.TrimSpace(sib.Data)
	case *etree.Element:
		text = strings.TrimSpace(textContent(sib))
	}

	return []notion.Block{notion.NewToDo([]notion.RichText{notion.Text(text)}, checked)}
}

// nextSibling returns the token immediately following el under its parent,
// nil when el is last or detached.
func nextSibling(el *etree.Element) etree.Token {
	parent := el.Parent()
	if parent == nil {
		return nil
	}
	for i, node := range parent.Child {
		if node == etree.Token(el) && i+1 < len(parent.Child) {
			return parent.Child[i+1]
		}
	}
	return nil
}

// textContent concatenates all character data in the subtree.
func textContent(el *etree.Element) string {
	var sb strings.Builder
	for _, node := range el.Child {
		switch token := node.(type) {
		case *etree.CharData:
			sb.WriteString(token.Data)
		case *etree.Element:
			sb.WriteString(textContent(token))
		}
	}
	return sb.String()
}

// findDescendants collects elements with one of the given tags anywhere in
// the subtree, in document order.
func findDescendants(el *etree.Element, tags ...string) []*etree.Element {
	var out []*etree.Element
	for _, node := range el.Child {
		child, ok := node.(*etree.Element)
		if !ok {
			continue
		}
		for _, tag := range tags {
			if strings.EqualFold(child.Tag, tag) {
				out = append(out, child)
				break
			}
		}
		out = append(out, findDescendants(child, tags...)...)
	}
	return out
}

func hasDescendant(el *etree.Element, tag string) bool {
	return len(findDescendants(el, tag)) > 0
}

func runsBlank(runs []notion.RichText) bool {
	for _, run := range runs {
		if len(strings.TrimSpace(run.Content)) > 0 {
			return false
		}
	}
	return true
}
