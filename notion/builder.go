package notion

// Block constructors. Every rich-text-carrying block always holds at least
// one run - callers pass the already assembled array and are expected to
// substitute an empty run for empty content (the enml package does).

// NewParagraph creates a paragraph block.
func NewParagraph(rt []RichText) Block {
	return Block{Kind: KindParagraph, Paragraph: &TextContent{RichText: rt, Color: ColorDefault}}
}

// NewHeading creates a heading block of the given level. Levels above 3 are
// not representable - collapsing them (with the bold override) is the
// converter's job, so the level here must be 1..3.
func NewHeading(level int, rt []RichText) Block {
	kind := KindHeading3
	switch level {
	case 1:
		kind = KindHeading1
	case 2:
		kind = KindHeading2
	}
	return Block{Kind: kind, Heading: &Heading{RichText: rt, Color: ColorDefault}}
}

// NewBulletedListItem creates a bulleted list item with optional nested list blocks.
func NewBulletedListItem(rt []RichText, children []Block) Block {
	return Block{Kind: KindBulletedListItem, ListItem: &ListItem{RichText: rt, Color: ColorDefault, Children: children}}
}

// NewNumberedListItem creates a numbered list item with optional nested list blocks.
func NewNumberedListItem(rt []RichText, children []Block) Block {
	return Block{Kind: KindNumberedListItem, ListItem: &ListItem{RichText: rt, Color: ColorDefault, Children: children}}
}

// NewToDo creates a to_do block.
func NewToDo(rt []RichText, checked bool) Block {
	return Block{Kind: KindToDo, ToDo: &ToDo{RichText: rt, Checked: checked, Color: ColorDefault}}
}

// NewQuote creates a quote block.
func NewQuote(rt []RichText) Block {
	return Block{Kind: KindQuote, Quote: &TextContent{RichText: rt, Color: ColorDefault}}
}

// NewDivider creates a divider block.
func NewDivider() Block {
	return Block{Kind: KindDivider, Divider: &Divider{}}
}

// NewImage creates an image block referencing an externally hosted URL.
func NewImage(url string) Block {
	return Block{Kind: KindImage, Media: &Media{Type: "external", External: External{URL: url}}}
}

// NewPDF creates a pdf block referencing an externally hosted URL.
func NewPDF(url string) Block {
	return Block{Kind: KindPDF, Media: &Media{Type: "external", External: External{URL: url}}}
}

// NewFile creates a generic file block referencing an externally hosted URL.
func NewFile(url string) Block {
	return Block{Kind: KindFile, Media: &Media{Type: "external", External: External{URL: url}}}
}

// NewTable creates a table block. Width must equal the cell count of every row.
func NewTable(width int, hasColumnHeader bool, rows []Block) Block {
	return Block{Kind: KindTable, Table: &Table{Width: width, HasColumnHeader: hasColumnHeader, Rows: rows}}
}

// NewTableRow creates a table_row block.
func NewTableRow(cells [][]RichText) Block {
	return Block{Kind: KindTableRow, TableRow: &TableRow{Cells: cells}}
}

// NewCode creates a code block.
func NewCode(rt []RichText, language string) Block {
	if len(language) == 0 {
		language = "plain text"
	}
	return Block{Kind: KindCode, Code: &Code{RichText: rt, Language: language}}
}
