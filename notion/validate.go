package notion

import (
	"fmt"
	"unicode/utf8"
)

// Structural contract checks over a finished block tree. Violations are
// data, not errors - a downstream transmitter decides what to do with them.

// Violation names one structural problem found in a block tree.
type Violation struct {
	// Path locates the offending block, e.g. "block[3].children[0]" or
	// "block[5].cells[2]".
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Reason
}

// Validate recursively checks a list of sibling blocks and returns every
// violation found, nil when the list is clean. It never fails part way - the
// whole tree is always inspected.
func Validate(blocks []Block) []Violation {
	var out []Violation
	for i := range blocks {
		out = validateBlock(&blocks[i], fmt.Sprintf("block[%d]", i), out)
	}
	return out
}

func validateBlock(b *Block, path string, out []Violation) []Violation {
	if !b.Kind.Valid() {
		return append(out, Violation{Path: path, Reason: fmt.Sprintf("unknown block kind %q", b.Kind)})
	}
	if b.payload() == nil {
		return append(out, Violation{Path: path, Reason: fmt.Sprintf("missing %s payload", b.Kind)})
	}
	if extra := b.strayPayloads(); len(extra) > 0 {
		out = append(out, Violation{Path: path, Reason: fmt.Sprintf("payload %s does not belong to a %s block", extra, b.Kind)})
	}

	out = validateRichText(b.RichText(), path, out)

	switch b.Kind {
	case KindTable:
		for i := range b.Table.Rows {
			row := &b.Table.Rows[i]
			rowPath := fmt.Sprintf("%s.children[%d]", path, i)
			if row.Kind != KindTableRow {
				out = append(out, Violation{Path: rowPath, Reason: fmt.Sprintf("table child is %s, expected %s", row.Kind, KindTableRow)})
				continue
			}
			out = validateBlock(row, rowPath, out)
		}
	case KindTableRow:
		for i, cell := range b.TableRow.Cells {
			out = validateRichText(cell, fmt.Sprintf("%s.cells[%d]", path, i), out)
		}
	case KindBulletedListItem, KindNumberedListItem:
		for i := range b.ListItem.Children {
			out = validateBlock(&b.ListItem.Children[i], fmt.Sprintf("%s.children[%d]", path, i), out)
		}
	}
	return out
}

func validateRichText(runs []RichText, path string, out []Violation) []Violation {
	for i, run := range runs {
		if n := utf8.RuneCountInString(run.Content); n > MaxRunLen {
			out = append(out, Violation{
				Path:   fmt.Sprintf("%s.rich_text[%d]", path, i),
				Reason: fmt.Sprintf("run length %d exceeds %d characters", n, MaxRunLen),
			})
		}
		if !run.Annotations.Color.Valid() {
			out = append(out, Violation{
				Path:   fmt.Sprintf("%s.rich_text[%d]", path, i),
				Reason: fmt.Sprintf("unsupported color %q", run.Annotations.Color),
			})
		}
	}
	return out
}

// strayPayloads returns the name of a payload field set on the block that
// its kind does not use, empty when the union is clean.
func (b *Block) strayPayloads() string {
	type field struct {
		name string
		set  bool
		used bool
	}
	fields := []field{
		{"paragraph", b.Paragraph != nil, b.Kind == KindParagraph},
		{"heading", b.Heading != nil, b.Kind == KindHeading1 || b.Kind == KindHeading2 || b.Kind == KindHeading3},
		{"list item", b.ListItem != nil, b.Kind == KindBulletedListItem || b.Kind == KindNumberedListItem},
		{"to_do", b.ToDo != nil, b.Kind == KindToDo},
		{"quote", b.Quote != nil, b.Kind == KindQuote},
		{"divider", b.Divider != nil, b.Kind == KindDivider},
		{"media", b.Media != nil, b.Kind == KindImage || b.Kind == KindFile || b.Kind == KindPDF},
		{"table", b.Table != nil, b.Kind == KindTable},
		{"table_row", b.TableRow != nil, b.Kind == KindTableRow},
		{"code", b.Code != nil, b.Kind == KindCode},
	}
	for _, f := range fields {
		if f.set && !f.used {
			return f.name
		}
	}
	return ""
}
