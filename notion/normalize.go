package notion

// NormalizeBlocks brings a freshly converted block list within the rich
// text limits. Oversized run lists split into continuation blocks of the
// same kind inserted right after the original; table cells, which cannot
// grow new blocks, get their individual runs split in place instead. The
// input is not modified.
func NormalizeBlocks(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, normalizeBlock(b)...)
	}
	return out
}

func normalizeBlock(b Block) []Block {
	if b.payload() == nil {
		// malformed union - left for Validate to report
		return []Block{b}
	}
	switch b.Kind {
	case KindParagraph, KindQuote:
		tc := *textContentOf(&b)
		chunks := SplitRichText(tc.RichText)
		blocks := make([]Block, 0, len(chunks))
		for _, chunk := range chunks {
			part := b
			cp := tc
			cp.RichText = chunk
			if b.Kind == KindQuote {
				part.Quote = &cp
			} else {
				part.Paragraph = &cp
			}
			blocks = append(blocks, part)
		}
		return blocks

	case KindHeading1, KindHeading2, KindHeading3:
		chunks := SplitRichText(b.Heading.RichText)
		blocks := make([]Block, 0, len(chunks))
		for _, chunk := range chunks {
			part := b
			cp := *b.Heading
			cp.RichText = chunk
			part.Heading = &cp
			blocks = append(blocks, part)
		}
		return blocks

	case KindBulletedListItem, KindNumberedListItem:
		chunks := SplitRichText(b.ListItem.RichText)
		blocks := make([]Block, 0, len(chunks))
		for i, chunk := range chunks {
			part := b
			cp := *b.ListItem
			cp.RichText = chunk
			if i == 0 {
				cp.Children = NormalizeBlocks(b.ListItem.Children)
			} else {
				// nested blocks stay with the first item
				cp.Children = nil
			}
			part.ListItem = &cp
			blocks = append(blocks, part)
		}
		return blocks

	case KindToDo:
		chunks := SplitRichText(b.ToDo.RichText)
		blocks := make([]Block, 0, len(chunks))
		for _, chunk := range chunks {
			part := b
			cp := *b.ToDo
			cp.RichText = chunk
			part.ToDo = &cp
			blocks = append(blocks, part)
		}
		return blocks

	case KindCode:
		chunks := SplitRichText(b.Code.RichText)
		blocks := make([]Block, 0, len(chunks))
		for _, chunk := range chunks {
			part := b
			cp := *b.Code
			cp.RichText = chunk
			part.Code = &cp
			blocks = append(blocks, part)
		}
		return blocks

	case KindTable:
		if b.Table == nil {
			return []Block{b}
		}
		cp := *b.Table
		cp.Rows = make([]Block, 0, len(b.Table.Rows))
		for _, row := range b.Table.Rows {
			cp.Rows = append(cp.Rows, normalizeTableRow(row))
		}
		b.Table = &cp
		return []Block{b}

	default:
		return []Block{b}
	}
}

// normalizeTableRow splits oversized runs inside cells in place. A row
// cannot spill into continuation blocks, so only the per-run limit is
// restored here.
func normalizeTableRow(row Block) Block {
	if row.Kind != KindTableRow || row.TableRow == nil {
		return row
	}
	cp := TableRow{Cells: make([][]RichText, 0, len(row.TableRow.Cells))}
	for _, cell := range row.TableRow.Cells {
		fixed := make([]RichText, 0, len(cell))
		for _, run := range cell {
			for _, piece := range SplitLongText(run.Content) {
				part := run
				part.Content = piece
				fixed = append(fixed, part)
			}
		}
		cp.Cells = append(cp.Cells, fixed)
	}
	row.TableRow = &cp
	return row
}

func textContentOf(b *Block) *TextContent {
	if b.Kind == KindQuote {
		return b.Quote
	}
	return b.Paragraph
}

// Batches produces API-ready batches from a raw converted block list:
// normalization first, then the contiguous ≤MaxBlocksPerBatch partition.
func Batches(blocks []Block) [][]Block {
	return SplitBlocks(NormalizeBlocks(blocks))
}
