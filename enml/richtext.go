package enml

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"

	"e2n/notion"
)

// Inline extraction. Annotations accumulate additively down the subtree -
// there is no way to turn a decoration back off below the tag that set it.
// The annotation set and link are passed by value into every recursive call
// so sibling subtrees can never observe each other's state.

// extractRichText walks el and returns the merged run list for its inline
// content. forceBold pre-sets the bold flag for every produced run (used by
// collapsed h4-h6 headings). The result always holds at least one run.
func (w *walker) extractRichText(el *etree.Element, forceBold bool) []notion.RichText {
	ann := notion.DefaultAnnotations()
	ann.Bold = forceBold

	var parts []notion.RichText
	w.inlineNode(el, &parts, ann, "")

	merged := mergeRuns(parts)
	if len(merged) == 0 {
		merged = []notion.RichText{notion.Text("")}
	}
	return merged
}

func (w *walker) inlineNode(node etree.Token, parts *[]notion.RichText, ann notion.Annotations, link string) {
	switch token := node.(type) {
	case *etree.CharData:
		// Entities are decoded here, once, before any merging.
		text := html.UnescapeString(token.Data)
		if len(text) > 0 {
			*parts = append(*parts, notion.RichText{Content: text, Link: link, Annotations: ann})
		}

	case *etree.Element:
		switch strings.ToLower(token.Tag) {
		case "en-todo":
			// converted separately, its text belongs to the to_do block
			return
		case "ul", "ol", "table", "blockquote", "hr":
			// block level content, never part of a run stream
			return
		case "b", "strong":
			ann.Bold = true
		case "i", "em":
			ann.Italic = true
		case "u":
			ann.Underline = true
		case "code":
			ann.Code = true
		case "s", "strike":
			ann.Strikethrough = true
		case "a":
			if href := token.SelectAttrValue("href", ""); len(href) > 0 {
				link = href
			}
		case "br":
			// a literal newline in the run stream, not a block boundary
			*parts = append(*parts, notion.RichText{Content: "\n", Annotations: ann})
			return
		case "span", "div", "p":
			// inline containers may carry a color style
			if color, ok := colorFromStyle(token.SelectAttrValue("style", "")); ok {
				ann.Color = color
			}
		}

		for _, child := range token.Child {
			w.inlineNode(child, parts, ann, link)
		}
	}
}

// mergeRuns concatenates consecutive runs with identical (annotations, link).
func mergeRuns(parts []notion.RichText) []notion.RichText {
	if len(parts) == 0 {
		return nil
	}
	merged := []notion.RichText{parts[0]}
	for _, part := range parts[1:] {
		last := &merged[len(merged)-1]
		if last.SameStyle(part) {
			last.Content += part.Content
		} else {
			merged = append(merged, part)
		}
	}
	return merged
}
