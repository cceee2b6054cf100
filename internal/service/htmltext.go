package service

import (
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors contribute nothing a recipe needs.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"svg", "canvas", "iframe", "video", "audio",
	"nav", "form", "button", "input", "select", "textarea",
	".ads", ".advertisement", ".cookie-banner", ".newsletter",
}

// HTMLTextExtractor linearizes recipe pages into Markdown-flavored text.
type HTMLTextExtractor struct {
	logger *slog.Logger
}

// NewHTMLTextExtractor creates an HTMLTextExtractor.
func NewHTMLTextExtractor(logger *slog.Logger) *HTMLTextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLTextExtractor{logger: logger}
}

// PlainText returns the visible text of html in reading order. The page title
// and social preview image are put first so the model can fill name and
// image_url even when the body omits them. It never fails; unusable input
// yields an empty string.
func (e *HTMLTextExtractor) PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Debug("html parse failed", "error", err)
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	image, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	image = strings.TrimSpace(image)

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	content := contentRoot(doc)

	var body string
	if content.Length() > 0 {
		fragment, err := goquery.OuterHtml(content)
		if err == nil {
			body, err = htmltomarkdown.ConvertString(fragment)
		}
		if err != nil {
			e.logger.Debug("markdown conversion failed, using raw text", "error", err)
			body = content.Text()
		}
	} else {
		body = doc.Text()
	}
	body = collapseBlankLines(body)

	var b strings.Builder
	if title != "" {
		b.WriteString("Title: ")
		b.WriteString(title)
		b.WriteString("\n")
	}
	if image != "" {
		b.WriteString("Image: ")
		b.WriteString(image)
		b.WriteString("\n")
	}
	if strings.TrimSpace(body) == "" {
		// Title and image alone are not a recipe.
		return ""
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(body)
	return b.String()
}

// minContentShare is the fraction of the body's text a main or article element
// must hold before the rest of the body is dropped as page chrome.
const minContentShare = 0.6

// contentRoot returns the largest main or article element when it carries most
// of the body's text, and the body otherwise.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	body := doc.Find("body").First()
	total := textLen(body)
	if total == 0 {
		return body
	}

	var best *goquery.Selection
	bestLen := 0
	doc.Find("main, article").Each(func(_ int, sel *goquery.Selection) {
		if n := textLen(sel); n > bestLen {
			best, bestLen = sel, n
		}
	})
	if best == nil || float64(bestLen) < minContentShare*float64(total) {
		return body
	}
	return best
}

func textLen(sel *goquery.Selection) int {
	return len(strings.Join(strings.Fields(sel.Text()), " "))
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
