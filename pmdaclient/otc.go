package pmdaclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/giygas/pmda-datasets/interfaces"
)

const (
	OTCSearchURL  = BaseURL + "/PmdaSearch/otcSearch/"
	otcPageURL    = BaseURL + "/PmdaSearch/otcSearch/PageChangeRequest/%d"
	otcDetailURL  = BaseURL + "/PmdaSearch/otcDetail/%s"
	otcGeneralURL = BaseURL + "/PmdaSearch/otcDetail/GeneralList/%s"
	otcPDFURL     = BaseURL + "/PmdaSearch/otcDetail/ResultDataSetPDF/%s/A"
	otcSuggestURL = BaseURL + "/PmdaSearch/js/data/otc/list_n.lib"
)

// Compile-time check that Client satisfies the OTC gateway contract.
var _ interfaces.OTCGateway = (*Client)(nil)

// OTCDetailLink returns the detail page URL for a product code.
func OTCDetailLink(code string) string {
	return fmt.Sprintf(otcDetailURL, code)
}

// OTCGeneralLink returns the general-list URL for a product code.
func OTCGeneralLink(code string) string {
	return fmt.Sprintf(otcGeneralURL, code)
}

// OTCPDFLink returns the package-insert PDF URL for a product code.
func OTCPDFLink(code string) string {
	return fmt.Sprintf(otcPDFURL, code)
}

// otcSearchPayload is the full search form the otcSearch endpoint expects.
// The endpoint rejects partial submissions, so every field is sent with its
// page default even when unused. Values lifted from the live form.
func otcSearchPayload(prefix string, listRows int) url.Values {
	v := url.Values{}
	v.Set("btnA.x", "0")
	v.Set("btnA.y", "0")
	v.Set("howtoMatchRadioValue", "2") // forward match
	v.Set("tglOpFlg", "")
	v.Set("effectValue", "")
	v.Set("txtEffect", "")
	v.Set("txtEffectHowtoSearch", "and")
	v.Set("cautions", "")
	v.Set("cautionsHowtoSearch", "and")
	v.Set("updateDocFrDt", "年月日 [YYYYMMDD]")
	v.Set("updateDocToDt", "年月日 [YYYYMMDD]")
	v.Set("compNameWord", "")
	v.Set("dosage", "")
	v.Set("ingredient", "")
	v.Set("ingredientNotInclude", "")
	v.Set("additive", "")
	v.Set("additiveNotInclude", "")
	v.Set("risk", "")
	v.Set("howtoRdSearchSel", "or")
	v.Set("listCategory", "")
	v.Set("nameWord", prefix)
	v.Set("ListRows", strconv.Itoa(listRows))

	for i, col := range []string{"1", "2", "11", "6"} {
		v.Set(fmt.Sprintf("dispColumnsList[%d]", i), col)
	}

	// Related-document sub-forms ship with placeholder text the server
	// expects verbatim.
	for i := 1; i <= 3; i++ {
		p := fmt.Sprintf("relationDoc%d", i)
		v.Set(p+"Sel", "")
		v.Set(p+"check1", "on")
		v.Set(p+"check2", "on")
		v.Set(p+"Word", "検索語を入力")
		v.Set(p+"HowtoSearch", "and")
		v.Set(p+"FrDt", "年月 [YYYYMM]")
		v.Set(p+"ToDt", "年月 [YYYYMM]")
	}
	v.Set("relationDocHowtoSearchBetween12", "and")
	v.Set("relationDocHowtoSearchBetween23", "and")

	return v
}

// InitSession performs the initial GET so the server issues session cookies.
func (c *Client) InitSession() error {
	_, err := c.get("otc_session", OTCSearchURL)
	return err
}

// FetchSuggestList returns the raw product-name suggest library.
func (c *Client) FetchSuggestList() (string, error) {
	return c.get("otc_suggest", otcSuggestURL)
}

// Search runs a forward-match product-name search and returns the first
// result page HTML.
func (c *Client) Search(prefix string, listRows int) (string, error) {
	return c.postForm(c.search, "otc_search", OTCSearchURL, otcSearchPayload(prefix, listRows))
}

// ChangePage fetches result page n. The endpoint answers with a JSON
// envelope whose ResultList member holds the result-table HTML fragment.
func (c *Client) ChangePage(page int, hidden map[string]string) (string, error) {
	form := url.Values{}
	for k, v := range hidden {
		form.Set(k, v)
	}

	body, err := c.postForm(c.search, "otc_page", fmt.Sprintf(otcPageURL, page), form)
	if err != nil {
		return "", err
	}

	var envelope struct {
		ResultList string `json:"ResultList"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return "", fmt.Errorf("otc_page: malformed page envelope: %w", err)
	}
	return envelope.ResultList, nil
}

// FetchDetail returns the detail page HTML for a product code.
func (c *Client) FetchDetail(code string) (string, error) {
	return c.get("otc_detail", OTCDetailLink(code))
}
