package richtext

import (
	"strings"
	"testing"
)

func span(text string, marks ...interface{}) map[string]interface{} {
	return map[string]interface{}{"_type": "span", "text": text, "marks": marks}
}

func textBlock(style string, children ...interface{}) map[string]interface{} {
	b := map[string]interface{}{"_type": "block", "children": children}
	if style != "" {
		b["style"] = style
	}
	return b
}

func listItem(listStyle, text string) map[string]interface{} {
	return map[string]interface{}{
		"_type":    "block",
		"style":    "normal",
		"listItem": listStyle,
		"children": []interface{}{span(text)},
	}
}

func TestRenderMalformedInput(t *testing.T) {
	t.Parallel()

	inputs := []interface{}{
		nil,
		"not blocks",
		42,
		map[string]interface{}{"_type": "block"},
	}
	for _, in := range inputs {
		if got := Render(in, Options{}); got != "" {
			t.Fatalf("Render(%v) = %q, want empty", in, got)
		}
	}
}

func TestRenderUnknownBlockKind(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{"_type": "mysteryBlock", "payload": "x"},
	}
	if got := Render(blocks, Options{}); got != "" {
		t.Fatalf("unknown block rendered %q, want empty", got)
	}
}

func TestRenderParagraphAndMarks(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		textBlock("normal",
			span("Kartofler er "),
			span("vigtige", "strong"),
			span(" og "),
			span("grønne", "em"),
			span(" og "),
			span("særlige", "mint"),
		),
	}
	got := Render(blocks, Options{})
	want := `<p>Kartofler er <strong>vigtige</strong> og <em>grønne</em> og <span class="font-serif italic text-mint">særlige</span></p>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderLinkMark(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{
			"_type": "block",
			"style": "normal",
			"children": []interface{}{
				span("læs mere", "abc123"),
			},
			"markDefs": []interface{}{
				map[string]interface{}{"_key": "abc123", "_type": "link", "href": "https://akd.dk/nyheder", "openInNewTab": true},
			},
		},
	}
	got := Render(blocks, Options{})
	want := `<p><a href="https://akd.dk/nyheder" target="_blank" rel="noopener noreferrer">læs mere</a></p>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderUnresolvedMarkDropsFormatting(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		textBlock("normal", span("bare tekst", "no-such-key")),
	}
	got := Render(blocks, Options{})
	if want := "<p>bare tekst</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderSpanTextNotEscaped(t *testing.T) {
	t.Parallel()

	// Span text is trusted CMS content and passes through verbatim.
	blocks := []interface{}{
		textBlock("normal", span("A &amp; B")),
	}
	got := Render(blocks, Options{})
	if want := "<p>A &amp; B</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderBulletListGrouping(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		listItem("bullet", "første"),
		listItem("bullet", "anden"),
	}
	got := Render(blocks, Options{})
	want := "<ul><li>første</li><li>anden</li></ul>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderListStyleChangeClosesList(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		listItem("bullet", "punkt"),
		listItem("number", "nummer"),
	}
	got := Render(blocks, Options{})
	want := "<ul><li>punkt</li></ul><ol><li>nummer</li></ol>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderNonListBlockClosesList(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		listItem("bullet", "punkt"),
		textBlock("normal", span("afsnit")),
		listItem("bullet", "nyt punkt"),
	}
	got := Render(blocks, Options{})
	want := "<ul><li>punkt</li></ul><p>afsnit</p><ul><li>nyt punkt</li></ul>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderTrailingListIsFlushed(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		textBlock("normal", span("intro")),
		listItem("number", "et"),
		listItem("number", "to"),
	}
	got := Render(blocks, Options{})
	want := "<p>intro</p><ol><li>et</li><li>to</li></ol>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderHeadingAnchors(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		textBlock("h2", span("Priser og betingelser")),
		textBlock("h3", span("Afregning")),
	}

	got := Render(blocks, Options{HeadingAnchors: true})
	want := `<h2 id="priser-og-betingelser">Priser og betingelser</h2><h3 id="afregning">Afregning</h3>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	plain := Render(blocks, Options{})
	if strings.Contains(plain, "id=") {
		t.Fatalf("anchors disabled but output has ids: %q", plain)
	}
}

func TestRenderUnknownStyleFallsBackToParagraph(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		textBlock("h5", span("tekst")),
	}
	if got, want := Render(blocks, Options{}), "<p>tekst</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderImage(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{
			"_type":   "image",
			"url":     "https://cdn.sanity.io/images/x.jpg?w=800&h=600",
			"alt":     `mark med "kartofler"`,
			"caption": "Høst 2024 <vest>",
		},
	}
	got := Render(blocks, Options{})
	want := `<figure><img src="https://cdn.sanity.io/images/x.jpg?w=800&amp;h=600" alt="mark med &#34;kartofler&#34;" class="w-full h-auto rounded-lg"/>` +
		`<figcaption class="text-sm text-charcoal/70 mt-2 text-center">Høst 2024 &lt;vest&gt;</figcaption></figure>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderImageWithoutCaption(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{"_type": "image", "url": "https://cdn.sanity.io/images/x.jpg", "alt": ""},
	}
	got := Render(blocks, Options{})
	if strings.Contains(got, "figcaption") {
		t.Fatalf("caption emitted for captionless image: %q", got)
	}
}

func TestRenderCalloutMatchesInnerRender(t *testing.T) {
	t.Parallel()

	inner := []interface{}{
		textBlock("normal", span("vigtig besked")),
	}
	blocks := []interface{}{
		map[string]interface{}{"_type": "calloutBlock", "content": inner},
	}
	got := Render(blocks, Options{})
	want := `<div class="callout">` + Render(inner, Options{}) + `</div>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderNestedCallout(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{
			"_type": "calloutBlock",
			"content": []interface{}{
				map[string]interface{}{
					"_type":   "calloutBlock",
					"content": []interface{}{textBlock("normal", span("inderst"))},
				},
			},
		},
	}
	got := Render(blocks, Options{})
	want := `<div class="callout"><div class="callout"><p>inderst</p></div></div>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func tableRow(cells ...interface{}) map[string]interface{} {
	return map[string]interface{}{"_key": "r", "cells": cells}
}

func TestRenderTableWithHeaderRow(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{
			"_type":        "tableBlock",
			"hasHeaderRow": true,
			"rows": []interface{}{
				tableRow("År", "Pris"),
				tableRow("2023", "1,25 kr"),
				tableRow("2024", "1,40 kr"),
			},
		},
	}
	got := Render(blocks, Options{})

	if n := strings.Count(got, "<thead>"); n != 1 {
		t.Fatalf("thead count = %d, want 1: %q", n, got)
	}
	if n := strings.Count(got, "<th>"); n != 2 {
		t.Fatalf("th count = %d, want 2: %q", n, got)
	}
	// Header row is consumed: two body rows remain.
	if n := strings.Count(got, "<tr>"); n != 3 {
		t.Fatalf("tr count = %d, want 3: %q", n, got)
	}
	if n := strings.Count(got, "<td>"); n != 4 {
		t.Fatalf("td count = %d, want 4: %q", n, got)
	}
}

func TestRenderTableWithoutHeaderRow(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{
			"_type":        "tableBlock",
			"hasHeaderRow": false,
			"rows": []interface{}{
				tableRow("a"),
				tableRow("b"),
				tableRow("c"),
			},
		},
	}
	got := Render(blocks, Options{})
	if strings.Contains(got, "<thead>") {
		t.Fatalf("header emitted without hasHeaderRow: %q", got)
	}
	if n := strings.Count(got, "<tr>"); n != 3 {
		t.Fatalf("tr count = %d, want 3: %q", n, got)
	}
}

func TestRenderTableEscapesCells(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{
			"_type": "tableBlock",
			"rows":  []interface{}{tableRow(`<script>alert("x")</script>`)},
		},
	}
	got := Render(blocks, Options{})
	if strings.Contains(got, "<script>") {
		t.Fatalf("cell not escaped: %q", got)
	}
}

func TestRenderVideoCard(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{
			"_type":        "videoBlock",
			"title":        "Sådan dyrker vi <stivelse>",
			"description":  "En rundtur på fabrikken",
			"videoUrl":     "https://cdn.sanity.io/files/tour.mp4?a=1&b=2",
			"thumbnail":    "https://cdn.sanity.io/images/thumb.jpg",
			"thumbnailAlt": "fabrik",
			"duration":     "4:32",
		},
	}
	got := Render(blocks, Options{})

	if !strings.Contains(got, `data-video-url="https://cdn.sanity.io/files/tour.mp4?a=1&amp;b=2"`) {
		t.Fatalf("missing or unescaped data-video-url: %q", got)
	}
	if !strings.Contains(got, "Sådan dyrker vi &lt;stivelse&gt;") {
		t.Fatalf("title not escaped: %q", got)
	}
	if !strings.Contains(got, `<span class="video-card-duration">4:32</span>`) {
		t.Fatalf("missing duration badge: %q", got)
	}
	if strings.Contains(got, "video-card-placeholder") {
		t.Fatalf("placeholder emitted despite thumbnail: %q", got)
	}
}

func TestRenderVideoCardPlaceholder(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		map[string]interface{}{
			"_type":    "videoBlock",
			"title":    "Uden billede",
			"videoUrl": "https://cdn.sanity.io/files/tour.mp4",
		},
	}
	got := Render(blocks, Options{})
	if !strings.Contains(got, "video-card-placeholder") {
		t.Fatalf("missing thumbnail placeholder: %q", got)
	}
	if strings.Contains(got, "video-card-duration") {
		t.Fatalf("duration badge emitted without duration: %q", got)
	}
	if strings.Contains(got, "video-card-description") {
		t.Fatalf("description emitted without description: %q", got)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		textBlock("h2", span("Overskrift")),
		map[string]interface{}{"_type": "image", "url": "x"},
		textBlock("normal", span("Første "), span("afsnit", "strong")),
	}
	got := PlainText(blocks)
	if want := "Overskrift Første afsnit"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if got := PlainText("nope"); got != "" {
		t.Fatalf("PlainText(non-array) = %q, want empty", got)
	}
}

func TestTableOfContents(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		textBlock("h2", span("Om andele")),
		textBlock("normal", span("brødtekst")),
		textBlock("h3", span("Køb af andele")),
		textBlock("h4", span("Praktisk")),
	}
	got := TableOfContents(blocks)
	want := []TOCEntry{
		{ID: "om-andele", Title: "Om andele", Level: 2},
		{ID: "køb-af-andele", Title: "Køb af andele", Level: 3},
		{ID: "praktisk", Title: "Praktisk", Level: 4},
	}
	if len(got) != len(want) {
		t.Fatalf("entry count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := TableOfContents(nil); got != nil {
		t.Fatalf("TableOfContents(nil) = %v, want nil", got)
	}
}

func TestHeadingIDMatchesTOCID(t *testing.T) {
	t.Parallel()

	blocks := []interface{}{
		textBlock("h2", span("  Afregning & priser 2024  ")),
	}
	html := Render(blocks, Options{HeadingAnchors: true})
	toc := TableOfContents(blocks)
	if len(toc) != 1 {
		t.Fatalf("toc entries = %d, want 1", len(toc))
	}
	if !strings.Contains(html, `id="`+toc[0].ID+`"`) {
		t.Fatalf("heading id missing from html: toc id %q, html %q", toc[0].ID, html)
	}
}
