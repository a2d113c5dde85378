package pmdaclient

import (
	"net/url"

	"github.com/giygas/pmda-datasets/interfaces"
)

const (
	IyakuSearchURL = BaseURL + "/PmdaSearch/iyakuSearch/"
	iyakuExportURL = BaseURL + "/PmdaSearch/iyakuSearch/exportSearchResult/csv"
)

// iyakuClient adapts Client to the prescription gateway contract. The OTC
// and iyaku interfaces both declare InitSession with different signatures,
// so the iyaku side lives on a wrapper type.
type iyakuClient struct {
	c *Client
}

var _ interfaces.IyakuGateway = iyakuClient{}

// Iyaku returns the prescription-catalog view of the client.
func (c *Client) Iyaku() interfaces.IyakuGateway {
	return iyakuClient{c: c}
}

// InitSession fetches the search page and returns its form defaults.
func (g iyakuClient) InitSession() (map[string]string, error) {
	page, err := g.c.get("iyaku_session", IyakuSearchURL)
	if err != nil {
		return nil, err
	}
	return ParseFormDefaults(page), nil
}

// Search posts a search form and returns the result page HTML.
func (g iyakuClient) Search(form map[string]string) (string, error) {
	return g.c.postForm(g.c.search, "iyaku_search", IyakuSearchURL, toValues(form))
}

// ExportCSV posts the export form and returns the decoded CSV text. The
// export runs on the long-timeout client; the response is Shift_JIS and is
// decoded transparently.
func (g iyakuClient) ExportCSV(form map[string]string) (string, error) {
	return g.c.postForm(g.c.export, "iyaku_export", iyakuExportURL, toValues(form))
}

func toValues(form map[string]string) url.Values {
	v := url.Values{}
	for k, val := range form {
		v.Set(k, val)
	}
	return v
}
