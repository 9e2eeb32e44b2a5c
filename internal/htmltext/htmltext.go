// Package htmltext converts email HTML into the plain-text alternative body.
//
// Block elements become paragraphs, links keep their target in brackets,
// headings are upper-cased and tables are laid out as aligned columns so
// table-based newsletter layouts stay readable.
package htmltext

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	cellGap = "   "
	rule    = "--------------------"
)

var (
	spaceRun     = regexp.MustCompile(`[ \t\r\n\f]+`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

// Convert returns the plain-text rendition of html.
func Convert(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("head, script, style, title").Remove()

	w := &writer{}
	w.children(doc.Selection)
	return tidy(w.String()), nil
}

// ConvertString is Convert without the error. The goquery parser never fails
// on a string reader, so the error is dropped.
func ConvertString(html string) string {
	out, _ := Convert(html)
	return out
}

type writer struct {
	b strings.Builder
}

func (w *writer) String() string { return w.b.String() }

func (w *writer) atLineStart() bool {
	s := w.b.String()
	return s == "" || strings.HasSuffix(s, "\n")
}

func (w *writer) text(s string) {
	s = spaceRun.ReplaceAllString(s, " ")
	if s == "" {
		return
	}
	if w.atLineStart() || strings.HasSuffix(w.b.String(), " ") {
		s = strings.TrimLeft(s, " ")
	}
	w.b.WriteString(s)
}

func (w *writer) raw(s string) { w.b.WriteString(s) }

func (w *writer) newline() {
	if !w.atLineStart() {
		w.b.WriteString("\n")
	}
}

func (w *writer) paragraph() {
	w.newline()
	if w.b.Len() > 0 && !strings.HasSuffix(w.b.String(), "\n\n") {
		w.b.WriteString("\n")
	}
}

func (w *writer) children(s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		w.node(c)
	})
}

func (w *writer) node(s *goquery.Selection) {
	switch name := goquery.NodeName(s); name {
	case "#text":
		w.text(s.Text())
	case "#comment":
	case "br":
		w.raw("\n")
	case "hr":
		w.paragraph()
		w.raw(rule)
		w.paragraph()
	case "p", "blockquote", "pre":
		w.paragraph()
		w.children(s)
		w.paragraph()
	case "h1", "h2", "h3", "h4", "h5", "h6":
		sub := &writer{}
		sub.children(s)
		w.paragraph()
		w.raw(strings.ToUpper(strings.TrimSpace(sub.String())))
		w.paragraph()
	case "div", "section", "article", "header", "footer", "center", "tr", "td", "th":
		w.newline()
		w.children(s)
		w.newline()
	case "ul", "ol":
		w.paragraph()
		s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
			w.newline()
			if name == "ol" {
				w.raw(fmt.Sprintf("%d. ", i+1))
			} else {
				w.raw("* ")
			}
			w.children(li)
		})
		w.paragraph()
	case "a":
		w.link(s)
	case "img":
		if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			w.text(alt)
		}
	case "table":
		w.table(s)
	default:
		w.children(s)
	}
}

func (w *writer) link(s *goquery.Selection) {
	sub := &writer{}
	sub.children(s)
	label := strings.TrimSpace(sub.String())
	href, _ := s.Attr("href")
	href = strings.TrimSpace(href)

	switch {
	case href == "" || strings.HasPrefix(href, "#"):
		w.text(label)
	case label == "" || label == href || "mailto:"+label == href:
		w.text(strings.TrimPrefix(href, "mailto:"))
	default:
		w.text(label + " [" + href + "]")
	}
}

// table lays out the rows that belong directly to s as aligned columns.
func (w *writer) table(s *goquery.Selection) {
	var rows [][][]string
	s.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(s)
	}).Each(func(_ int, tr *goquery.Selection) {
		var cells [][]string
		tr.ChildrenFiltered("td, th").Each(func(_ int, td *goquery.Selection) {
			sub := &writer{}
			sub.children(td)
			text := tidy(sub.String())
			if goquery.NodeName(td) == "th" {
				text = strings.ToUpper(text)
			}
			cells = append(cells, strings.Split(text, "\n"))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			for _, line := range cell {
				if n := utf8.RuneCountInString(line); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}

	w.paragraph()
	for _, row := range rows {
		height := 0
		for _, cell := range row {
			if len(cell) > height {
				height = len(cell)
			}
		}
		for line := 0; line < height; line++ {
			parts := make([]string, len(row))
			for i, cell := range row {
				text := ""
				if line < len(cell) {
					text = cell[line]
				}
				parts[i] = text + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(text))
			}
			out := strings.TrimRight(strings.Join(parts, cellGap), " ")
			if out != "" {
				w.raw(out + "\n")
			}
		}
	}
	w.paragraph()
}

// tidy trims trailing spaces per line and collapses runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	s = strings.Join(lines, "\n")
	s = blankLineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
