package notion

import (
	"encoding/json"
	"testing"
)

func mustMarshal(t *testing.T, v any) map[string]any {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return out
}

func TestRichTextMarshal(t *testing.T) {
	t.Run("plain run", func(t *testing.T) {
		got := mustMarshal(t, Text("hello"))

		if got["type"] != "text" {
			t.Errorf("type = %v, want text", got["type"])
		}
		text := got["text"].(map[string]any)
		if text["content"] != "hello" {
			t.Errorf("content = %v, want hello", text["content"])
		}
		if _, present := text["link"]; present {
			t.Error("link must be omitted for plain runs")
		}
		ann := got["annotations"].(map[string]any)
		if ann["bold"] != false || ann["color"] != "default" {
			t.Errorf("annotations = %v, want all off with default color", ann)
		}
	})

	t.Run("link run with annotations", func(t *testing.T) {
		run := RichText{
			Content:     "click",
			Link:        "https://example.com",
			Annotations: Annotations{Bold: true, Italic: true, Color: ColorBlue},
		}
		got := mustMarshal(t, run)

		text := got["text"].(map[string]any)
		link := text["link"].(map[string]any)
		if link["url"] != "https://example.com" {
			t.Errorf("link url = %v", link["url"])
		}
		ann := got["annotations"].(map[string]any)
		if ann["bold"] != true || ann["italic"] != true || ann["color"] != "blue" {
			t.Errorf("annotations = %v", ann)
		}
	})
}

func TestBlockMarshal(t *testing.T) {
	t.Run("paragraph", func(t *testing.T) {
		got := mustMarshal(t, NewParagraph([]RichText{Text("body")}))

		if got["type"] != "paragraph" {
			t.Errorf("type = %v, want paragraph", got["type"])
		}
		payload := got["paragraph"].(map[string]any)
		if payload["color"] != "default" {
			t.Errorf("color = %v, want default", payload["color"])
		}
		if runs := payload["rich_text"].([]any); len(runs) != 1 {
			t.Errorf("rich_text holds %d runs, want 1", len(runs))
		}
	})

	t.Run("heading keys follow level", func(t *testing.T) {
		for level, key := range map[int]string{1: "heading_1", 2: "heading_2", 3: "heading_3"} {
			got := mustMarshal(t, NewHeading(level, []RichText{Text("h")}))
			if got["type"] != key {
				t.Errorf("level %d type = %v, want %s", level, got["type"], key)
			}
			if _, ok := got[key]; !ok {
				t.Errorf("level %d payload key %s missing", level, key)
			}
		}
	})

	t.Run("divider", func(t *testing.T) {
		got := mustMarshal(t, NewDivider())
		if got["type"] != "divider" {
			t.Errorf("type = %v, want divider", got["type"])
		}
		payload := got["divider"].(map[string]any)
		if len(payload) != 0 {
			t.Errorf("divider payload = %v, want empty object", payload)
		}
	})

	t.Run("image", func(t *testing.T) {
		got := mustMarshal(t, NewImage("https://example.com/pic.png"))
		payload := got["image"].(map[string]any)
		if payload["type"] != "external" {
			t.Errorf("media type = %v, want external", payload["type"])
		}
		external := payload["external"].(map[string]any)
		if external["url"] != "https://example.com/pic.png" {
			t.Errorf("url = %v", external["url"])
		}
	})

	t.Run("table", func(t *testing.T) {
		table := NewTable(2, true, []Block{
			NewTableRow([][]RichText{{Text("a")}, {Text("b")}}),
		})
		got := mustMarshal(t, table)

		payload := got["table"].(map[string]any)
		if payload["table_width"] != float64(2) {
			t.Errorf("table_width = %v, want 2", payload["table_width"])
		}
		if payload["has_column_header"] != true {
			t.Error("has_column_header lost")
		}
		rows := payload["children"].([]any)
		row := rows[0].(map[string]any)
		if row["type"] != "table_row" {
			t.Errorf("row type = %v, want table_row", row["type"])
		}
		cells := row["table_row"].(map[string]any)["cells"].([]any)
		if len(cells) != 2 {
			t.Errorf("row holds %d cells, want 2", len(cells))
		}
	})

	t.Run("to_do", func(t *testing.T) {
		got := mustMarshal(t, NewToDo([]RichText{Text("task")}, true))
		payload := got["to_do"].(map[string]any)
		if payload["checked"] != true {
			t.Error("checked lost")
		}
	})

	t.Run("code defaults language", func(t *testing.T) {
		got := mustMarshal(t, NewCode([]RichText{Text("x := 1")}, ""))
		payload := got["code"].(map[string]any)
		if payload["language"] != "plain text" {
			t.Errorf("language = %v, want plain text", payload["language"])
		}
	})
}

func TestColorValid(t *testing.T) {
	for _, c := range []Color{ColorDefault, ColorRed, ColorGrayBackground} {
		if !c.Valid() {
			t.Errorf("Color(%q).Valid() = false, want true", c)
		}
	}
	for _, c := range []Color{"", "magenta", "RED"} {
		if c.Valid() {
			t.Errorf("Color(%q).Valid() = true, want false", c)
		}
	}
}

func TestSameStyle(t *testing.T) {
	a := RichText{Content: "one", Annotations: Annotations{Bold: true, Color: ColorDefault}}
	b := RichText{Content: "two", Annotations: Annotations{Bold: true, Color: ColorDefault}}
	if !a.SameStyle(b) {
		t.Error("runs with equal annotations and links must merge")
	}

	b.Link = "https://example.com"
	if a.SameStyle(b) {
		t.Error("link difference must prevent merging")
	}
}
