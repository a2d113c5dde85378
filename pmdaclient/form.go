package pmdaclient

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHiddenInputs collects the hidden input fields of a result page.
// The paging and CSV-export endpoints require this state to be echoed back.
func ParseHiddenInputs(pageHTML string) map[string]string {
	values := make(map[string]string)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return values
	}

	doc.Find(`input[type="hidden"]`).Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}
		values[name] = s.AttrOr("value", "")
	})

	return values
}

// ParseFormDefaults extracts the default form state of a search page:
// hidden and text inputs, checked radio buttons and checkboxes, and the
// selected (or first) option of each select. Searches must submit the full
// form, not just the fields they change.
func ParseFormDefaults(pageHTML string) map[string]string {
	payload := make(map[string]string)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return payload
	}

	doc.Find("input").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}

		inputType := strings.ToLower(s.AttrOr("type", "text"))
		value := s.AttrOr("value", "")
		_, checked := s.Attr("checked")

		switch inputType {
		case "hidden", "text":
			payload[name] = value
		case "radio":
			if checked {
				payload[name] = value
			}
		case "checkbox":
			if checked {
				if value == "" {
					value = "on"
				}
				payload[name] = value
			}
		}
	})

	doc.Find("select").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}

		selected := s.Find(`option[selected]`).First()
		if selected.Length() == 0 {
			selected = s.Find("option").First()
		}
		payload[name] = selected.AttrOr("value", "")
	})

	return payload
}

// ParseSearchCount reads the total hit count a result page reports in its
// searchCnt hidden input. A missing or malformed field counts as zero.
func ParseSearchCount(pageHTML string) int {
	return hiddenInt(pageHTML, "searchCnt", 0)
}

// ParseTotalPages reads the page count of a result set, defaulting to one.
func ParseTotalPages(pageHTML string) int {
	return hiddenInt(pageHTML, "totalPages", 1)
}

func hiddenInt(pageHTML, name string, def int) int {
	v := ParseHiddenInputs(pageHTML)[name]
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
