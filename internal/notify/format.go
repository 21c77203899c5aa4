package notify

import (
	"fmt"
	"strings"

	"mediawatch/internal/model"
)

const maxDigestItems = 10

// FormatDigest formats new articles as a single Telegram digest message.
// Beyond maxDigestItems the remainder is collapsed into a count line.
func FormatDigest(articles []model.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New coverage: %d article(s)\n", len(articles))

	shown := articles
	if len(shown) > maxDigestItems {
		shown = shown[:maxDigestItems]
	}

	for _, a := range shown {
		b.WriteString("\n")
		b.WriteString(a.Headline)
		if a.Outlet != "" {
			fmt.Fprintf(&b, " (%s)", a.Outlet)
		}
		if a.Hyperlink != "" {
			b.WriteString("\n")
			b.WriteString(a.Hyperlink)
		}
		b.WriteString("\n")
	}

	if rest := len(articles) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\nand %d more", rest)
	}
	return b.String()
}
