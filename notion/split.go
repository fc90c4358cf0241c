package notion

import (
	"unicode"
	"unicode/utf8"
)

// Splitting algorithms enforcing the API limits. All three are deterministic
// and side effect free; lengths are counted in characters (runes), matching
// how the API counts them.

// Preferred break points for long text, probed in this exact order: the
// latin terminators include the following space, the CJK ones do not.
var sentenceEndings = [][]rune{
	[]rune(". "),
	[]rune("! "),
	[]rune("? "),
	[]rune("。"),
	[]rune("！"),
	[]rune("？"),
}

// SplitLongText splits text into chunks of at most MaxRunLen characters.
// Break point search per chunk: last space within the limit, then last
// newline, then the first sentence terminator from the list above found
// within the limit, then a hard cut at the limit. Leading whitespace of
// every continuation chunk is trimmed.
func SplitLongText(text string) []string {
	return splitLongText(text, MaxRunLen)
}

func splitLongText(text string, limit int) []string {
	remaining := []rune(text)
	if len(remaining) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(remaining) > limit {
		split := lastIndexRune(remaining, ' ', limit)
		if split == -1 {
			split = lastIndexRune(remaining, '\n', limit)
		}
		if split == -1 {
			for _, ending := range sentenceEndings {
				if pos := lastIndexSeq(remaining, ending, limit); pos != -1 {
					split = pos + len(ending)
					break
				}
			}
		}
		if split <= 0 {
			split = limit
		}
		chunks = append(chunks, string(remaining[:split]))
		remaining = trimLeadingSpace(remaining[split:])
	}
	if len(remaining) > 0 {
		chunks = append(chunks, string(remaining))
	}
	return chunks
}

// lastIndexRune returns the highest index i < end with runes[i] == r, -1 if none.
func lastIndexRune(runes []rune, r rune, end int) int {
	if end > len(runes) {
		end = len(runes)
	}
	for i := end - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// lastIndexSeq returns the highest index i such that seq occurs at runes[i]
// and ends at or before end, -1 if none.
func lastIndexSeq(runes, seq []rune, end int) int {
	if end > len(runes) {
		end = len(runes)
	}
	for i := end - len(seq); i >= 0; i-- {
		match := true
		for j, r := range seq {
			if runes[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func trimLeadingSpace(runes []rune) []rune {
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return runes[i:]
}

// SplitRichText splits a run list into chunks whose total character count
// stays within MaxRunLen. The scan is greedy left to right; a single run
// longer than the limit flushes the current chunk and is split with
// SplitLongText into singleton-run chunks.
func SplitRichText(runs []RichText) [][]RichText {
	if len(runs) == 0 {
		return [][]RichText{nil}
	}

	var (
		result  [][]RichText
		current []RichText
		length  int
	)
	for _, run := range runs {
		n := utf8.RuneCountInString(run.Content)
		switch {
		case n > MaxRunLen:
			if len(current) > 0 {
				result = append(result, current)
				current = nil
				length = 0
			}
			for _, piece := range SplitLongText(run.Content) {
				part := run
				part.Content = piece
				result = append(result, []RichText{part})
			}
		case length+n > MaxRunLen:
			if len(current) > 0 {
				result = append(result, current)
			}
			current = []RichText{run}
			length = n
		default:
			current = append(current, run)
			length += n
		}
	}
	if len(current) > 0 {
		result = append(result, current)
	}
	if len(result) == 0 {
		return [][]RichText{nil}
	}
	return result
}

// SplitBlocks partitions sibling blocks into batches of at most
// MaxBlocksPerBatch, preserving order. ceil(N/limit) batches result.
func SplitBlocks(blocks []Block) [][]Block {
	if len(blocks) <= MaxBlocksPerBatch {
		return [][]Block{blocks}
	}
	var chunks [][]Block
	for i := 0; i < len(blocks); i += MaxBlocksPerBatch {
		chunks = append(chunks, blocks[i:min(i+MaxBlocksPerBatch, len(blocks))])
	}
	return chunks
}
