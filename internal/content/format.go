// Package content renders article bodies written in a small line-oriented
// markup into sanitized HTML.
//
// Grammar, one construct per line:
//
//	# text      heading 1
//	## text     heading 2
//	### text    heading 3
//	- text      list item
//	**text**    heading 4
//	(blank)     line break
//	text        paragraph
//
// Inline markup is not interpreted. Every line is HTML-escaped before it is
// matched, so user text can never produce live tags.
package content

import (
	"strings"
)

const (
	classH1 = "text-3xl font-bold text-foreground mt-8 mb-4"
	classH2 = "text-2xl font-semibold text-foreground mt-6 mb-3"
	classH3 = "text-xl font-semibold text-foreground mt-4 mb-2"
	classH4 = "font-semibold text-foreground mt-4 mb-2"
	classLi = "text-muted-foreground mb-1"
	classP  = "text-muted-foreground mb-4 leading-relaxed"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// Escape replaces the five HTML-significant characters in s with entities.
// Ampersands are handled in the same single pass, so entities produced here
// are never escaped twice.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Format converts raw markup to sanitized HTML. Empty input yields empty output.
func Format(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		formatLine(&b, Escape(strings.TrimSuffix(line, "\r")))
	}
	return Sanitize(b.String())
}

func formatLine(b *strings.Builder, line string) {
	switch {
	case strings.HasPrefix(line, "# "):
		wrap(b, "h1", classH1, line[2:])
	case strings.HasPrefix(line, "## "):
		wrap(b, "h2", classH2, line[3:])
	case strings.HasPrefix(line, "### "):
		wrap(b, "h3", classH3, line[4:])
	case strings.HasPrefix(line, "- "):
		wrap(b, "li", classLi, line[2:])
	case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**"):
		inner := ""
		if len(line) >= 4 {
			inner = line[2 : len(line)-2]
		}
		wrap(b, "h4", classH4, inner)
	case strings.TrimSpace(line) == "":
		b.WriteString("<br>")
	default:
		wrap(b, "p", classP, line)
	}
}

func wrap(b *strings.Builder, tag, class, text string) {
	b.WriteString("<")
	b.WriteString(tag)
	b.WriteString(` class="`)
	b.WriteString(class)
	b.WriteString(`">`)
	b.WriteString(text)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
}
