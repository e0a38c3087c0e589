// Package richtext renders Sanity Portable Text block trees to HTML. It
// operates on decoded JSON (the exact shape the CMS returns) and is total
// over malformed input: anything it does not recognize renders as the empty
// string, never as an error.
package richtext

import (
	"html"
	"strings"
)

type Options struct {
	// HeadingAnchors adds slugified id attributes to h2-h4 headings so the
	// table of contents can link to them.
	HeadingAnchors bool
}

// openList accumulates consecutive list-item blocks of the same style so
// they end up in a single <ul>/<ol> container. A style change, any
// non-list block, or the end of input flushes it.
type openList struct {
	style string // "bullet" or "number"
	items []string
}

func (l *openList) html() string {
	tag := "ul"
	if l.style == "number" {
		tag = "ol"
	}
	return "<" + tag + ">" + strings.Join(l.items, "") + "</" + tag + ">"
}

// Render converts a Portable Text block sequence to HTML. The input is the
// decoded JSON value; non-array input yields "".
func Render(blocks interface{}, opts Options) string {
	items, ok := blocks.([]interface{})
	if !ok {
		return ""
	}

	var out strings.Builder
	var list *openList

	for _, raw := range items {
		block, _ := raw.(map[string]interface{})

		if style, isListItem := listStyle(block); isListItem {
			item := renderBlock(block, opts)
			if list != nil && list.style != style {
				out.WriteString(list.html())
				list = nil
			}
			if list == nil {
				list = &openList{style: style, items: []string{item}}
			} else {
				list.items = append(list.items, item)
			}
			continue
		}

		if list != nil {
			out.WriteString(list.html())
			list = nil
		}
		out.WriteString(renderBlock(block, opts))
	}

	if list != nil {
		out.WriteString(list.html())
	}
	return out.String()
}

func listStyle(block map[string]interface{}) (string, bool) {
	if stringField(block, "_type") != "block" {
		return "", false
	}
	li := stringField(block, "listItem")
	if li == "" {
		return "", false
	}
	if li == "bullet" {
		return "bullet", true
	}
	return "number", true
}

func renderBlock(block map[string]interface{}, opts Options) string {
	switch stringField(block, "_type") {
	case "image":
		return renderImage(block)
	case "calloutBlock":
		return `<div class="callout">` + Render(block["content"], opts) + `</div>`
	case "tableBlock":
		return renderTable(block)
	case "videoBlock":
		return renderVideoCard(block)
	case "block":
		return renderTextBlock(block, opts)
	}
	return ""
}

func renderImage(block map[string]interface{}) string {
	var b strings.Builder
	b.WriteString(`<figure><img src="` + esc(stringField(block, "url")) + `" alt="` + esc(stringField(block, "alt")) + `" class="w-full h-auto rounded-lg"/>`)
	if caption := stringField(block, "caption"); caption != "" {
		b.WriteString(`<figcaption class="text-sm text-charcoal/70 mt-2 text-center">` + esc(caption) + `</figcaption>`)
	}
	b.WriteString(`</figure>`)
	return b.String()
}

func renderTable(block map[string]interface{}) string {
	rows, _ := block["rows"].([]interface{})

	var b strings.Builder
	b.WriteString(`<div class="table-wrapper"><table>`)

	bodyRows := rows
	if boolField(block, "hasHeaderRow") && len(rows) > 0 {
		header, _ := rows[0].(map[string]interface{})
		b.WriteString(`<thead><tr>`)
		for _, cell := range cells(header) {
			b.WriteString(`<th>` + esc(cell) + `</th>`)
		}
		b.WriteString(`</tr></thead>`)
		bodyRows = rows[1:]
	}

	b.WriteString(`<tbody>`)
	for _, raw := range bodyRows {
		row, _ := raw.(map[string]interface{})
		b.WriteString(`<tr>`)
		for _, cell := range cells(row) {
			b.WriteString(`<td>` + esc(cell) + `</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}

func cells(row map[string]interface{}) []string {
	raw, _ := row["cells"].([]interface{})
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		s, _ := c.(string)
		out = append(out, s)
	}
	return out
}

// renderVideoCard emits a clickable card; the frontend video modal reads
// data-video-url off it.
func renderVideoCard(block map[string]interface{}) string {
	var b strings.Builder
	b.WriteString(`<div class="video-card" role="button" tabindex="0" data-video-url="` + esc(stringField(block, "videoUrl")) + `">`)

	b.WriteString(`<div class="video-card-thumb">`)
	if thumb := stringField(block, "thumbnail"); thumb != "" {
		b.WriteString(`<img src="` + esc(thumb) + `" alt="` + esc(stringField(block, "thumbnailAlt")) + `"/>`)
	} else {
		b.WriteString(`<span class="video-card-placeholder" aria-hidden="true"></span>`)
	}
	if duration := stringField(block, "duration"); duration != "" {
		b.WriteString(`<span class="video-card-duration">` + esc(duration) + `</span>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="video-card-body"><span class="video-card-title">` + esc(stringField(block, "title")) + `</span>`)
	if desc := stringField(block, "description"); desc != "" {
		b.WriteString(`<p class="video-card-description">` + esc(desc) + `</p>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func renderTextBlock(block map[string]interface{}, opts Options) string {
	children := renderSpans(block)

	// List items get no paragraph wrapper; the list container comes from
	// the accumulator in Render.
	if stringField(block, "listItem") != "" {
		return "<li>" + children + "</li>"
	}

	switch style := stringField(block, "style"); style {
	case "h2", "h3", "h4":
		id := ""
		if opts.HeadingAnchors {
			id = ` id="` + Slugify(blockText(block)) + `"`
		}
		return "<" + style + id + ">" + children + "</" + style + ">"
	default:
		return "<p>" + children + "</p>"
	}
}

// renderSpans applies each span's marks in order. Span text is passed
// through unescaped: the CMS is the trusted author of this content, and
// escaping here would break intentional entities. Block-level fields
// (captions, cells, video metadata) do get escaped above.
func renderSpans(block map[string]interface{}) string {
	children, _ := block["children"].([]interface{})
	markDefs, _ := block["markDefs"].([]interface{})

	var b strings.Builder
	for _, raw := range children {
		child, _ := raw.(map[string]interface{})
		if stringField(child, "_type") != "span" {
			continue
		}
		text := stringField(child, "text")
		marks, _ := child["marks"].([]interface{})
		for _, m := range marks {
			mark, _ := m.(string)
			switch mark {
			case "strong":
				text = "<strong>" + text + "</strong>"
			case "em":
				text = "<em>" + text + "</em>"
			case "mint", "mintAccent":
				text = `<span class="font-serif italic text-mint">` + text + `</span>`
			default:
				// Anything else is either a mark-definition key (links) or
				// unknown; unknown marks drop their formatting silently.
				if def := findMarkDef(markDefs, mark); def != nil && stringField(def, "_type") == "link" {
					target := ""
					if boolField(def, "openInNewTab") {
						target = ` target="_blank" rel="noopener noreferrer"`
					}
					text = `<a href="` + esc(stringField(def, "href")) + `"` + target + `>` + text + `</a>`
				}
			}
		}
		b.WriteString(text)
	}
	return b.String()
}

func findMarkDef(markDefs []interface{}, key string) map[string]interface{} {
	for _, raw := range markDefs {
		def, _ := raw.(map[string]interface{})
		if stringField(def, "_key") == key {
			return def
		}
	}
	return nil
}

func blockText(block map[string]interface{}) string {
	children, _ := block["children"].([]interface{})
	var b strings.Builder
	for _, raw := range children {
		child, _ := raw.(map[string]interface{})
		b.WriteString(stringField(child, "text"))
	}
	return b.String()
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func esc(s string) string {
	return html.EscapeString(s)
}
