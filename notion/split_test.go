package notion

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitLongText_ShortPassthrough(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"short", "hello world"},
		{"exactly at limit", strings.Repeat("a", MaxRunLen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLongText(tt.in)
			if len(got) != 1 {
				t.Fatalf("SplitLongText() produced %d chunks, want 1", len(got))
			}
			if got[0] != tt.in {
				t.Errorf("SplitLongText() = %q, want input unchanged", got[0])
			}
		})
	}
}

func TestSplitLongText_HardCut(t *testing.T) {
	// no spaces, newlines or sentence endings anywhere
	in := strings.Repeat("a", 3000)

	got := SplitLongText(in)
	if len(got) != 2 {
		t.Fatalf("SplitLongText() produced %d chunks, want 2", len(got))
	}
	if n := utf8.RuneCountInString(got[0]); n != MaxRunLen {
		t.Errorf("first chunk length = %d, want %d", n, MaxRunLen)
	}
	if n := utf8.RuneCountInString(got[1]); n != 1000 {
		t.Errorf("second chunk length = %d, want 1000", n)
	}
	if got[0]+got[1] != in {
		t.Error("concatenated chunks do not reproduce input")
	}
}

func TestSplitLongText_PrefersSpace(t *testing.T) {
	// space at position 1500, rest is solid
	in := strings.Repeat("a", 1500) + " " + strings.Repeat("b", 1000)

	got := SplitLongText(in)
	if len(got) != 2 {
		t.Fatalf("SplitLongText() produced %d chunks, want 2", len(got))
	}
	if got[0] != strings.Repeat("a", 1500) {
		t.Errorf("first chunk length = %d, want split at the last space", len(got[0]))
	}
	// continuation must not start with the space
	if got[1] != strings.Repeat("b", 1000) {
		t.Errorf("second chunk = %q..., want leading whitespace trimmed", got[1][:10])
	}
}

func TestSplitLongText_NewlineFallback(t *testing.T) {
	in := strings.Repeat("a", 1200) + "\n" + strings.Repeat("b", 1200)

	got := SplitLongText(in)
	if len(got) != 2 {
		t.Fatalf("SplitLongText() produced %d chunks, want 2", len(got))
	}
	if got[0] != strings.Repeat("a", 1200) {
		t.Error("expected split at the newline when no space exists")
	}
	if got[1] != strings.Repeat("b", 1200) {
		t.Error("expected continuation without the newline")
	}
}

func TestSplitLongText_SentenceEndingFallback(t *testing.T) {
	// "? " at 1000 and "! " at 1500: neither space nor newline search can be
	// used here because the terminators embed a space. Use CJK terminators
	// which do not.
	in := strings.Repeat("あ", 1000) + "。" + strings.Repeat("い", 1500)

	got := SplitLongText(in)
	if len(got) != 2 {
		t.Fatalf("SplitLongText() produced %d chunks, want 2", len(got))
	}
	if got[0] != strings.Repeat("あ", 1000)+"。" {
		t.Error("expected split right after the sentence terminator")
	}
	if got[1] != strings.Repeat("い", 1500) {
		t.Error("unexpected continuation after terminator split")
	}
}

func TestSplitLongText_TerminatorOrderIsByList(t *testing.T) {
	// "。" appears later in the text than "！", but "。" is earlier in the
	// terminator list, so the break lands after "。".
	in := strings.Repeat("あ", 500) + "！" + strings.Repeat("い", 500) + "。" + strings.Repeat("う", 1500)

	got := SplitLongText(in)
	if len(got) != 2 {
		t.Fatalf("SplitLongText() produced %d chunks, want 2", len(got))
	}
	want := strings.Repeat("あ", 500) + "！" + strings.Repeat("い", 500) + "。"
	if got[0] != want {
		t.Errorf("first chunk ends at rune %d, want break after the first-listed terminator", utf8.RuneCountInString(got[0]))
	}
}

func TestSplitLongText_ContentPreserved(t *testing.T) {
	// modulo whitespace trimmed at chunk boundaries nothing may be lost
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		sb.WriteString("word word word. ")
	}
	in := sb.String()

	got := SplitLongText(in)
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks for %d characters", utf8.RuneCountInString(in))
	}
	for i, chunk := range got {
		if n := utf8.RuneCountInString(chunk); n > MaxRunLen {
			t.Errorf("chunk %d length = %d, exceeds %d", i, n, MaxRunLen)
		}
	}

	joined := strings.Join(got, "")
	stripped := strings.ReplaceAll(in, " ", "")
	if strings.ReplaceAll(joined, " ", "") != stripped {
		t.Error("non-whitespace content was lost or reordered by splitting")
	}
}

func TestSplitLongText_RunesNotBytes(t *testing.T) {
	// 2100 multibyte characters must split by character count
	in := strings.Repeat("я", 2100)

	got := SplitLongText(in)
	if len(got) != 2 {
		t.Fatalf("SplitLongText() produced %d chunks, want 2", len(got))
	}
	if n := utf8.RuneCountInString(got[0]); n != MaxRunLen {
		t.Errorf("first chunk = %d runes, want %d", n, MaxRunLen)
	}
	if n := utf8.RuneCountInString(got[1]); n != 100 {
		t.Errorf("second chunk = %d runes, want 100", n)
	}
}

func TestSplitRichText_Empty(t *testing.T) {
	got := SplitRichText(nil)
	if len(got) != 1 {
		t.Fatalf("SplitRichText(nil) produced %d chunks, want 1", len(got))
	}
	if got[0] != nil {
		t.Errorf("SplitRichText(nil) = %v, want single nil chunk", got[0])
	}
}

func TestSplitRichText_FitsInOneChunk(t *testing.T) {
	runs := []RichText{
		Text(strings.Repeat("a", 900)),
		Text(strings.Repeat("b", 900)),
	}

	got := SplitRichText(runs)
	if len(got) != 1 {
		t.Fatalf("SplitRichText() produced %d chunks, want 1", len(got))
	}
	if len(got[0]) != 2 {
		t.Errorf("chunk holds %d runs, want 2", len(got[0]))
	}
}

func TestSplitRichText_GreedyBoundary(t *testing.T) {
	// 1500 + 1500 + 500: second run does not fit with the first,
	// third fits with the second
	runs := []RichText{
		Text(strings.Repeat("a", 1500)),
		Text(strings.Repeat("b", 1500)),
		Text(strings.Repeat("c", 500)),
	}

	got := SplitRichText(runs)
	if len(got) != 2 {
		t.Fatalf("SplitRichText() produced %d chunks, want 2", len(got))
	}
	if len(got[0]) != 1 || got[0][0].Content[0] != 'a' {
		t.Errorf("first chunk = %d runs, want the single oversized-with-next run", len(got[0]))
	}
	if len(got[1]) != 2 {
		t.Errorf("second chunk = %d runs, want 2", len(got[1]))
	}
}

func TestSplitRichText_OversizedRun(t *testing.T) {
	ann := Annotations{Bold: true, Color: ColorRed}
	runs := []RichText{
		Text("prefix"),
		{Content: strings.Repeat("x", 4100), Annotations: ann, Link: "https://example.com"},
		Text("suffix"),
	}

	got := SplitRichText(runs)
	// prefix flushed alone, 3 singleton chunks for the long run, then suffix
	if len(got) != 5 {
		t.Fatalf("SplitRichText() produced %d chunks, want 5", len(got))
	}
	for i := 1; i <= 3; i++ {
		if len(got[i]) != 1 {
			t.Fatalf("chunk %d holds %d runs, want singleton", i, len(got[i]))
		}
		run := got[i][0]
		if run.Annotations != ann || run.Link != "https://example.com" {
			t.Errorf("chunk %d lost annotations or link of the original run", i)
		}
		if n := utf8.RuneCountInString(run.Content); n > MaxRunLen {
			t.Errorf("chunk %d length = %d, exceeds %d", i, n, MaxRunLen)
		}
	}
}

func TestSplitBlocks(t *testing.T) {
	mkBlocks := func(n int) []Block {
		blocks := make([]Block, 0, n)
		for i := 0; i < n; i++ {
			blocks = append(blocks, NewParagraph([]RichText{Text("p")}))
		}
		return blocks
	}

	tests := []struct {
		name  string
		count int
		want  []int
	}{
		{"empty", 0, []int{0}},
		{"single", 1, []int{1}},
		{"at limit", 100, []int{100}},
		{"one over", 101, []int{100, 1}},
		{"two and a half batches", 250, []int{100, 100, 50}},
		{"exact multiple", 200, []int{100, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitBlocks(mkBlocks(tt.count))
			if len(got) != len(tt.want) {
				t.Fatalf("SplitBlocks() produced %d batches, want %d", len(got), len(tt.want))
			}
			total := 0
			for i, batch := range got {
				if len(batch) != tt.want[i] {
					t.Errorf("batch %d holds %d blocks, want %d", i, len(batch), tt.want[i])
				}
				total += len(batch)
			}
			if total != tt.count {
				t.Errorf("batches hold %d blocks total, want %d", total, tt.count)
			}
		})
	}
}
