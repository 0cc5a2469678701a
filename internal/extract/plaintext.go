package extract

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// blockTag matches the attribute-free block tags left after sanitizing
var blockTag = regexp.MustCompile(`</?[a-z0-9]+\s*/?>`)

// blockPolicy drops every element except line-producing blocks, and drops
// script and style content entirely
var blockPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AllowElements("p", "br", "div", "li", "tr", "blockquote", "pre")
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
}()

// PlainText converts a rendered message to text, one block per line.
// Used when the caller sends only the message HTML.
func PlainText(messageHTML string) string {
	if strings.TrimSpace(messageHTML) == "" {
		return ""
	}

	blocks := blockTag.ReplaceAllString(blockPolicy.Sanitize(messageHTML), "\n")

	var lines []string
	for _, line := range strings.Split(html.UnescapeString(blocks), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
