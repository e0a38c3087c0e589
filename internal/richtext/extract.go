package richtext

import "strings"

// PlainText flattens all text blocks to their span text, one space between
// blocks. Used for excerpts.
func PlainText(blocks interface{}) string {
	items, ok := blocks.([]interface{})
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, raw := range items {
		block, _ := raw.(map[string]interface{})
		if stringField(block, "_type") != "block" {
			continue
		}
		parts = append(parts, blockText(block))
	}
	return strings.Join(parts, " ")
}

type TOCEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// TableOfContents lists every h2-h4 heading with the same id Render would
// put on it.
func TableOfContents(blocks interface{}) []TOCEntry {
	items, ok := blocks.([]interface{})
	if !ok {
		return nil
	}
	var toc []TOCEntry
	for _, raw := range items {
		block, _ := raw.(map[string]interface{})
		if stringField(block, "_type") != "block" {
			continue
		}
		var level int
		switch stringField(block, "style") {
		case "h2":
			level = 2
		case "h3":
			level = 3
		case "h4":
			level = 4
		default:
			continue
		}
		title := blockText(block)
		toc = append(toc, TOCEntry{ID: Slugify(title), Title: title, Level: level})
	}
	return toc
}
