package extract

import "strings"

// minValidTextLength is the minimum character count for extracted text to be
// considered a readable credit report rather than garbage.
const minValidTextLength = 200

// minKeywordMatches is how many distinct report keywords must appear.
const minKeywordMatches = 3

// reportKeywords are terms that appear in every known bureau export. A PDF
// can have a text layer that still decodes to garbage; requiring a few of
// these catches that before the text reaches parsing.
var reportKeywords = []string{
	"account",
	"balance",
	"credit",
	"payment",
	"status",
	"creditor",
	"opened",
	"reported",
	"collection",
	"charge",
	"transunion",
	"equifax",
	"experian",
	"bureau",
}

// IsValidReportText reports whether extracted text plausibly came from a
// credit-bureau report.
func IsValidReportText(text string) bool {
	if len(text) < minValidTextLength {
		return false
	}
	lower := strings.ToLower(text)
	matches := 0
	for _, keyword := range reportKeywords {
		if strings.Contains(lower, keyword) {
			matches++
			if matches >= minKeywordMatches {
				return true
			}
		}
	}
	return false
}
