package notion

import (
	"strings"
	"testing"
)

func TestValidate_CleanTree(t *testing.T) {
	blocks := []Block{
		NewHeading(1, []RichText{Text("Title")}),
		NewParagraph([]RichText{Text("body"), {Content: "link", Link: "https://example.com", Annotations: DefaultAnnotations()}}),
		NewBulletedListItem([]RichText{Text("item")}, []Block{
			NewBulletedListItem([]RichText{Text("nested")}, nil),
		}),
		NewDivider(),
		NewTable(2, true, []Block{
			NewTableRow([][]RichText{{Text("a")}, {Text("b")}}),
			NewTableRow([][]RichText{{Text("c")}, {Text("d")}}),
		}),
	}

	if got := Validate(blocks); len(got) != 0 {
		t.Errorf("Validate() on a clean tree = %v, want none", got)
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	blocks := []Block{{Kind: BlockKind("callout")}}

	got := Validate(blocks)
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d violations, want 1", len(got))
	}
	if got[0].Path != "block[0]" {
		t.Errorf("Path = %q, want block[0]", got[0].Path)
	}
	if !strings.Contains(got[0].Reason, "callout") {
		t.Errorf("Reason = %q, should name the unknown kind", got[0].Reason)
	}
}

func TestValidate_MissingPayload(t *testing.T) {
	blocks := []Block{{Kind: KindParagraph}}

	got := Validate(blocks)
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d violations, want 1", len(got))
	}
	if !strings.Contains(got[0].Reason, "missing") {
		t.Errorf("Reason = %q, should report the missing payload", got[0].Reason)
	}
}

func TestValidate_StrayPayload(t *testing.T) {
	b := NewParagraph([]RichText{Text("p")})
	b.ToDo = &ToDo{RichText: []RichText{Text("stray")}}

	got := Validate([]Block{b})
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d violations, want 1: %v", len(got), got)
	}
	if !strings.Contains(got[0].Reason, "to_do") {
		t.Errorf("Reason = %q, should name the stray payload", got[0].Reason)
	}
}

func TestValidate_OversizedRun(t *testing.T) {
	blocks := []Block{
		NewParagraph([]RichText{Text(strings.Repeat("a", MaxRunLen+1))}),
	}

	got := Validate(blocks)
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d violations, want 1", len(got))
	}
	if got[0].Path != "block[0].rich_text[0]" {
		t.Errorf("Path = %q, want block[0].rich_text[0]", got[0].Path)
	}
}

func TestValidate_BadColor(t *testing.T) {
	run := Text("colored")
	run.Annotations.Color = Color("magenta")

	got := Validate([]Block{NewParagraph([]RichText{run})})
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d violations, want 1", len(got))
	}
	if !strings.Contains(got[0].Reason, "magenta") {
		t.Errorf("Reason = %q, should name the bad color", got[0].Reason)
	}
}

func TestValidate_TableChildKind(t *testing.T) {
	table := NewTable(1, false, []Block{
		NewParagraph([]RichText{Text("not a row")}),
	})

	got := Validate([]Block{table})
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d violations, want 1: %v", len(got), got)
	}
	if got[0].Path != "block[0].children[0]" {
		t.Errorf("Path = %q, want block[0].children[0]", got[0].Path)
	}
}

func TestValidate_NestedPaths(t *testing.T) {
	bad := NewBulletedListItem([]RichText{Text(strings.Repeat("x", MaxRunLen+5))}, nil)
	blocks := []Block{
		NewParagraph([]RichText{Text("ok")}),
		NewBulletedListItem([]RichText{Text("parent")}, []Block{bad}),
	}

	got := Validate(blocks)
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d violations, want 1: %v", len(got), got)
	}
	if got[0].Path != "block[1].children[0].rich_text[0]" {
		t.Errorf("Path = %q, want nested rich text path", got[0].Path)
	}
}

func TestValidate_CellPaths(t *testing.T) {
	row := NewTableRow([][]RichText{
		{Text("fine")},
		{Text(strings.Repeat("y", MaxRunLen+1))},
	})

	got := Validate([]Block{NewTable(2, false, []Block{row})})
	if len(got) != 1 {
		t.Fatalf("Validate() returned %d violations, want 1: %v", len(got), got)
	}
	if got[0].Path != "block[0].children[0].cells[1].rich_text[0]" {
		t.Errorf("Path = %q, want cell-level rich text path", got[0].Path)
	}
}

func TestValidate_CollectsEverything(t *testing.T) {
	blocks := []Block{
		{Kind: KindParagraph},
		{Kind: BlockKind("bogus")},
		NewParagraph([]RichText{Text(strings.Repeat("a", MaxRunLen+1))}),
	}

	got := Validate(blocks)
	if len(got) != 3 {
		t.Errorf("Validate() returned %d violations, want all 3 collected", len(got))
	}
}

// Depth is declared in the limits but nothing checks it: trees nested beyond
// MaxNestingDepth still validate clean.
func TestValidate_NestingDepthNotEnforced(t *testing.T) {
	deep := NewBulletedListItem([]RichText{Text("level 4")}, nil)
	for _, label := range []string{"level 3", "level 2", "level 1"} {
		deep = NewBulletedListItem([]RichText{Text(label)}, []Block{deep})
	}

	if got := Validate([]Block{deep}); len(got) != 0 {
		t.Errorf("Validate() = %v, expected depth beyond MaxNestingDepth to pass", got)
	}
}
