// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)

	htmlFencePattern = regexp.MustCompile("(?s)```html\\s*(.*?)\\s*```")
	codeFencePattern = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	jsonFencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	jsonLDPattern    = regexp.MustCompile(`(?s)<script type="application/ld\+json">(.*?)</script>`)

	h1Pattern = regexp.MustCompile(`(?m)^# (.*)$`)
	h2Pattern = regexp.MustCompile(`(?m)^## (.*)$`)
	h3Pattern = regexp.MustCompile(`(?m)^### (.*)$`)
	h4Pattern = regexp.MustCompile(`(?m)^#### (.*)$`)

	bulletPattern   = regexp.MustCompile(`(?m)^\* (.*)$`)
	numberedPattern = regexp.MustCompile(`(?m)^\d+\. (.*)$`)
	listGapPattern  = regexp.MustCompile(`(?s)<li>(.*?)</li>\s*<li>`)
	listRunPattern  = regexp.MustCompile(`(?s)(<li>.*?</li>)+`)

	barelinePattern  = regexp.MustCompile(`(?m)^([^<\n].*)$`)
	emptyParaPattern = regexp.MustCompile(`<p>\s*</p>`)
)

// contentPolicy is the allow-list for model-produced HTML: structural and
// inline formatting tags only, with class attributes on div and span.
var contentPolicy = buildContentPolicy()

func buildContentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "strong", "em",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tr", "th", "td",
		"blockquote", "pre", "code",
	)
	p.AllowAttrs("class").OnElements("div", "span")
	p.AllowElements("div", "span")
	return p
}

// CleanHTML normalizes a model response into safe post HTML: markdown
// constructs are converted to tags, then everything outside the allow-list
// is stripped and empty paragraphs removed.
func CleanHTML(html string) string {
	if strings.Contains(html, "#") || strings.Contains(html, "```") {
		html = markdownToHTML(html)
	}
	html = contentPolicy.Sanitize(html)
	return emptyParaPattern.ReplaceAllString(html, "")
}

// markdownToHTML converts the markdown subset the model tends to emit:
// fenced blocks, headings up to level four, lists and bare paragraphs.
func markdownToHTML(s string) string {
	s = htmlFencePattern.ReplaceAllString(s, "$1")
	s = codeFencePattern.ReplaceAllString(s, "<pre><code>$1</code></pre>")

	s = h4Pattern.ReplaceAllString(s, "<h4>$1</h4>")
	s = h3Pattern.ReplaceAllString(s, "<h3>$1</h3>")
	s = h2Pattern.ReplaceAllString(s, "<h2>$1</h2>")
	s = h1Pattern.ReplaceAllString(s, "<h1>$1</h1>")

	s = bulletPattern.ReplaceAllString(s, "<li>$1</li>")
	s = numberedPattern.ReplaceAllString(s, "<li>$1</li>")
	s = listGapPattern.ReplaceAllString(s, "<li>$1</li><li>")
	s = listRunPattern.ReplaceAllString(s, "<ul>$0</ul>")

	s = barelinePattern.ReplaceAllString(s, "<p>$1</p>")
	return strings.ReplaceAll(s, "<p></p>", "")
}

// extractJSON pulls a fenced JSON block out of a model response, falling
// back to the whole response when no fence is present.
func extractJSON(response string) string {
	if m := jsonFencePattern.FindStringSubmatch(response); m != nil {
		return m[1]
	}
	return response
}

// extractJSONLD pulls JSON-LD from a script tag or JSON fence, falling back
// to the whole response.
func extractJSONLD(response string) string {
	if m := jsonLDPattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := jsonFencePattern.FindStringSubmatch(response); m != nil {
		return m[1]
	}
	return response
}
