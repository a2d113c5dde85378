package otcscraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/textutil"
)

var generalListHrefRe = regexp.MustCompile(`/PmdaSearch/otcDetail/GeneralList/([^'"/?#]+)`)

// ParseResultRows extracts the search-result rows from a result page or a
// page-change fragment. Each row links the product name to its
// GeneralList detail code; the manufacturer sits in a styled div in the
// same row.
func ParseResultRows(resultHTML string) []entities.SearchRow {
	// Page-change responses are bare <tr> fragments; without a table
	// context the HTML5 parser would discard them.
	if !strings.Contains(resultHTML, "<table") {
		resultHTML = "<table>" + resultHTML + "</table>"
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resultHTML))
	if err != nil {
		return nil
	}

	rows := doc.Find(`tr[class^="TrColor"]`)
	if rows.Length() == 0 {
		rows = doc.Find("tr")
	}

	var out []entities.SearchRow
	rows.Each(func(_ int, tr *goquery.Selection) {
		var code string
		var name string

		tr.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href := a.AttrOr("href", "")
			m := generalListHrefRe.FindStringSubmatch(href)
			if m == nil {
				return true
			}
			code = strings.TrimSpace(m[1])
			name = textutil.Normalize(a.Text())
			return false
		})
		if code == "" {
			return
		}

		manufacturer := ""
		if div := tr.Find(`div[style*="margin-top:10px"]`).First(); div.Length() > 0 {
			manufacturer = textutil.Normalize(div.Text())
		}

		out = append(out, entities.SearchRow{
			Code:         code,
			ProductName:  name,
			Manufacturer: manufacturer,
		})
	})

	return out
}
