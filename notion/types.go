// Package notion implements the block model accepted by the Notion API
// together with the size limits the API imposes on it.
package notion

import (
	"encoding/json"
)

// Color enumerates text colors supported by the API.
type Color string

const (
	ColorDefault          Color = "default"
	ColorGray             Color = "gray"
	ColorBrown            Color = "brown"
	ColorOrange           Color = "orange"
	ColorYellow           Color = "yellow"
	ColorGreen            Color = "green"
	ColorBlue             Color = "blue"
	ColorPurple           Color = "purple"
	ColorPink             Color = "pink"
	ColorRed              Color = "red"
	ColorGrayBackground   Color = "gray_background"
	ColorBrownBackground  Color = "brown_background"
	ColorOrangeBackground Color = "orange_background"
	ColorYellowBackground Color = "yellow_background"
	ColorGreenBackground  Color = "green_background"
	ColorBlueBackground   Color = "blue_background"
	ColorPurpleBackground Color = "purple_background"
	ColorPinkBackground   Color = "pink_background"
	ColorRedBackground    Color = "red_background"
)

// Valid reports whether color belongs to the supported palette.
func (c Color) Valid() bool {
	switch c {
	case ColorDefault, ColorGray, ColorBrown, ColorOrange, ColorYellow, ColorGreen,
		ColorBlue, ColorPurple, ColorPink, ColorRed,
		ColorGrayBackground, ColorBrownBackground, ColorOrangeBackground, ColorYellowBackground,
		ColorGreenBackground, ColorBlueBackground, ColorPurpleBackground, ColorPinkBackground,
		ColorRedBackground:
		return true
	}
	return false
}

// Annotations is the complete set of text decorations attached to a run.
// There are no optional flags - every run carries the full record.
type Annotations struct {
	Bold          bool  `json:"bold"`
	Italic        bool  `json:"italic"`
	Underline     bool  `json:"underline"`
	Code          bool  `json:"code"`
	Strikethrough bool  `json:"strikethrough"`
	Color         Color `json:"color"`
}

// DefaultAnnotations returns annotations with everything off and default color.
func DefaultAnnotations() Annotations {
	return Annotations{Color: ColorDefault}
}

// RichText is a span of text carrying one annotation set and an optional link.
// Merge identity is (Annotations, Link).
type RichText struct {
	Content     string
	Link        string // empty when the run is not a link
	Annotations Annotations
}

// Text creates a plain run with default annotations.
func Text(content string) RichText {
	return RichText{Content: content, Annotations: DefaultAnnotations()}
}

// SameStyle reports whether two runs can be merged into one.
func (r RichText) SameStyle(o RichText) bool {
	return r.Annotations == o.Annotations && r.Link == o.Link
}

type wireLink struct {
	URL string `json:"url"`
}

type wireText struct {
	Content string    `json:"content"`
	Link    *wireLink `json:"link,omitempty"`
}

type wireRichText struct {
	Type        string      `json:"type"`
	Text        wireText    `json:"text"`
	Annotations Annotations `json:"annotations"`
}

// MarshalJSON produces the API wire shape of a rich text object.
func (r RichText) MarshalJSON() ([]byte, error) {
	w := wireRichText{
		Type:        "text",
		Text:        wireText{Content: r.Content},
		Annotations: r.Annotations,
	}
	if len(r.Link) > 0 {
		w.Text.Link = &wireLink{URL: r.Link}
	}
	return json.Marshal(w)
}

// BlockKind distinguishes the different kinds of blocks.
type BlockKind string

const (
	KindParagraph        BlockKind = "paragraph"
	KindHeading1         BlockKind = "heading_1"
	KindHeading2         BlockKind = "heading_2"
	KindHeading3         BlockKind = "heading_3"
	KindBulletedListItem BlockKind = "bulleted_list_item"
	KindNumberedListItem BlockKind = "numbered_list_item"
	KindToDo             BlockKind = "to_do"
	KindQuote            BlockKind = "quote"
	KindDivider          BlockKind = "divider"
	KindImage            BlockKind = "image"
	KindFile             BlockKind = "file"
	KindPDF              BlockKind = "pdf"
	KindTable            BlockKind = "table"
	KindTableRow         BlockKind = "table_row"
	KindCode             BlockKind = "code"
)

// Valid reports whether the kind is one we know how to emit.
func (k BlockKind) Valid() bool {
	switch k {
	case KindParagraph, KindHeading1, KindHeading2, KindHeading3,
		KindBulletedListItem, KindNumberedListItem, KindToDo, KindQuote,
		KindDivider, KindImage, KindFile, KindPDF, KindTable, KindTableRow, KindCode:
		return true
	}
	return false
}

// TextContent is the payload shared by paragraph and quote blocks.
type TextContent struct {
	RichText []RichText `json:"rich_text"`
	Color    Color      `json:"color"`
}

// Heading is the payload of heading_1..heading_3 blocks; the block kind
// carries the level.
type Heading struct {
	RichText     []RichText `json:"rich_text"`
	Color        Color      `json:"color"`
	IsToggleable bool       `json:"is_toggleable"`
}

// ListItem is the payload of bulleted and numbered list items. Children
// holds nested list blocks only.
type ListItem struct {
	RichText []RichText `json:"rich_text"`
	Color    Color      `json:"color"`
	Children []Block    `json:"children,omitempty"`
}

// ToDo is the payload of a to_do block.
type ToDo struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Color    Color      `json:"color"`
}

// Divider has no content of its own.
type Divider struct{}

// External references content hosted outside of the API by URL. Used by
// image, pdf and generic file blocks.
type External struct {
	URL string `json:"url"`
}

// Media is the payload of image, pdf and file blocks.
type Media struct {
	Type     string     `json:"type"`
	External External   `json:"external"`
	Caption  []RichText `json:"caption,omitempty"`
}

// Table is the payload of a table block. Rows hold table_row blocks in
// display order; Width is fixed by the first row.
type Table struct {
	Width           int     `json:"table_width"`
	HasColumnHeader bool    `json:"has_column_header"`
	HasRowHeader    bool    `json:"has_row_header"`
	Rows            []Block `json:"children"`
}

// TableRow is the payload of a table_row block; every cell is a rich text
// array of the owning table's width.
type TableRow struct {
	Cells [][]RichText `json:"cells"`
}

// Code is the payload of a code block.
type Code struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
	Caption  []RichText `json:"caption,omitempty"`
}

// Block is a tagged union over all block kinds. Kind selects exactly one
// payload field; all others stay nil.
type Block struct {
	Kind BlockKind

	Paragraph *TextContent
	Heading   *Heading
	ListItem  *ListItem
	ToDo      *ToDo
	Quote     *TextContent
	Divider   *Divider
	Media     *Media
	Table     *Table
	TableRow  *TableRow
	Code      *Code
}

// RichText returns the primary rich text array of the block, nil for kinds
// that do not carry one directly (divider, media, table, table_row).
func (b *Block) RichText() []RichText {
	switch b.Kind {
	case KindParagraph:
		if b.Paragraph != nil {
			return b.Paragraph.RichText
		}
	case KindHeading1, KindHeading2, KindHeading3:
		if b.Heading != nil {
			return b.Heading.RichText
		}
	case KindBulletedListItem, KindNumberedListItem:
		if b.ListItem != nil {
			return b.ListItem.RichText
		}
	case KindToDo:
		if b.ToDo != nil {
			return b.ToDo.RichText
		}
	case KindQuote:
		if b.Quote != nil {
			return b.Quote.RichText
		}
	case KindCode:
		if b.Code != nil {
			return b.Code.RichText
		}
	}
	return nil
}

// Children returns nested blocks for kinds that may carry them.
func (b *Block) Children() []Block {
	switch b.Kind {
	case KindBulletedListItem, KindNumberedListItem:
		if b.ListItem != nil {
			return b.ListItem.Children
		}
	case KindTable:
		if b.Table != nil {
			return b.Table.Rows
		}
	}
	return nil
}

// payload returns the payload value matching the block kind, nil when the
// required field is not set.
func (b *Block) payload() any {
	switch b.Kind {
	case KindParagraph:
		if b.Paragraph != nil {
			return b.Paragraph
		}
	case KindHeading1, KindHeading2, KindHeading3:
		if b.Heading != nil {
			return b.Heading
		}
	case KindBulletedListItem, KindNumberedListItem:
		if b.ListItem != nil {
			return b.ListItem
		}
	case KindToDo:
		if b.ToDo != nil {
			return b.ToDo
		}
	case KindQuote:
		if b.Quote != nil {
			return b.Quote
		}
	case KindDivider:
		if b.Divider != nil {
			return struct{}{}
		}
	case KindImage, KindFile, KindPDF:
		if b.Media != nil {
			return b.Media
		}
	case KindTable:
		if b.Table != nil {
			return b.Table
		}
	case KindTableRow:
		if b.TableRow != nil {
			return b.TableRow
		}
	case KindCode:
		if b.Code != nil {
			return b.Code
		}
	}
	return nil
}

// MarshalJSON produces the API wire shape: a "type" discriminator plus a
// payload key named after the kind.
func (b Block) MarshalJSON() ([]byte, error) {
	payload := b.payload()
	if payload == nil {
		// Malformed unions are reported by Validate; keep marshaling total.
		payload = struct{}{}
	}
	return json.Marshal(map[string]any{
		"type":          string(b.Kind),
		string(b.Kind): payload,
	})
}
