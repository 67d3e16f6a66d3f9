// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText returns the text content of markup with whitespace runs
// collapsed. Math delimiters are kept as written.
func PlainText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing markup: %w", err)
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
