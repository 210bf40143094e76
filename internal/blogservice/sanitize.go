package blogservice

import "regexp"

var scriptTagRX = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// sanitizeMarkdown strips script elements from Markdown before it is stored.
func sanitizeMarkdown(markdown string) string {
	return scriptTagRX.ReplaceAllString(markdown, "")
}
