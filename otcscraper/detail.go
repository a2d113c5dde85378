package otcscraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/giygas/pmda-datasets/textutil"
	"golang.org/x/net/html"
)

// ParseDetailFields walks a product detail page and pairs each td.head
// heading with the td.deta cell that follows it, yielding a field map like
// {"成分分量": "...", "リスク区分": "..."}. Values keep line structure (the
// dosage table relies on it); headings are flattened to one line.
func ParseDetailFields(detailHTML string) map[string]string {
	fields := make(map[string]string)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(detailHTML))
	if err != nil {
		return fields
	}

	currentHead := ""
	doc.Find("td.head, td.deta").Each(func(_ int, td *goquery.Selection) {
		if td.HasClass("head") {
			currentHead = textutil.Normalize(cellText(td))
			return
		}
		if currentHead == "" {
			return
		}
		fields[currentHead] = textutil.CollapseSpace(cellText(td))
		currentHead = ""
	})

	return fields
}

// cellText renders a table cell to text, turning the structural tags the
// site uses (br, p, li, div, tr) into newlines and nested cells into tabs,
// so amounts stay attached to the ingredient line they belong to.
func cellText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		renderNode(&b, node, true)
	}
	return b.String()
}

func renderNode(b *strings.Builder, n *html.Node, root bool) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if n.Type != html.ElementNode && n.Type != html.DocumentNode {
		return
	}

	if !root {
		switch n.Data {
		case "br":
			b.WriteString("\n")
			return
		case "td", "th":
			b.WriteString("\t")
		case "p", "li", "div", "tr":
			b.WriteString("\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c, false)
	}

	if !root {
		switch n.Data {
		case "p", "li", "div", "tr":
			b.WriteString("\n")
		}
	}
}

// PickField returns the first field whose heading matches one of the
// candidates. Headings drift between e.g. 成分分量 and 成分・分量, so exact
// comparison runs on normalized keys first, then falls back to substring
// containment.
func PickField(fields map[string]string, candidates ...string) string {
	if len(fields) == 0 {
		return ""
	}

	normalized := make(map[string]string, len(fields))
	for k, v := range fields {
		normalized[textutil.NormalizeKey(k)] = v
	}
	for _, candidate := range candidates {
		if v, ok := normalized[textutil.NormalizeKey(candidate)]; ok {
			return v
		}
	}

	for k, v := range fields {
		for _, candidate := range candidates {
			if strings.Contains(k, candidate) {
				return v
			}
		}
	}
	return ""
}
