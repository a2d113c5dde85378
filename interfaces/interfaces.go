// Package interfaces defines the contracts between the crawl pipeline, the
// dataset container and the serving layer, so each side can be tested with
// injected fakes.
package interfaces

import (
	"time"

	"github.com/giygas/pmda-datasets/entities"
)

// OTCGateway is the network boundary of the OTC crawl. Implementations own
// the PMDA protocol details (session cookies, form payloads, page-change
// JSON envelope); the scraper owns partitioning, paging and extraction.
type OTCGateway interface {
	// InitSession performs the initial GET against the search page so the
	// server issues a session cookie.
	InitSession() error

	// FetchSuggestList returns the raw product-name suggest library
	// (list_n.lib) used to enumerate prefix partitions.
	FetchSuggestList() (string, error)

	// Search runs a forward-match search for a name prefix and returns the
	// first result page HTML.
	Search(prefix string, listRows int) (string, error)

	// ChangePage requests result page n using the hidden form state of the
	// original search and returns the result-list HTML fragment.
	ChangePage(page int, hidden map[string]string) (string, error)

	// FetchDetail returns the detail page HTML for a product code.
	FetchDetail(code string) (string, error)
}

// IyakuGateway is the network boundary of the prescription crawl.
type IyakuGateway interface {
	// InitSession fetches the search page and returns its form defaults,
	// which later searches must echo back.
	InitSession() (map[string]string, error)

	// Search posts a search form and returns the result page HTML.
	Search(form map[string]string) (string, error)

	// ExportCSV posts the export form and returns the decoded CSV text of
	// the current result set.
	ExportCSV(form map[string]string) (string, error)
}

// DataStore provides thread-safe access to the aggregated datasets for the
// serving layer, with atomic snapshot swaps for zero-downtime refreshes.
type DataStore interface {
	OTCProducts() []entities.OTCProduct
	OTCProductByCode(code string) (entities.OTCProduct, bool)
	IyakuProducts() []entities.IyakuProduct
	OTCIngredientIndex() map[string]*entities.IngredientIndexEntry
	IyakuIngredientIndex() map[string]*entities.IngredientIndexEntry
	LastUpdated() time.Time
	IsUpdating() bool

	Swap(snapshot *entities.DatasetSnapshot)
	BeginUpdate() bool
	EndUpdate()
}

// DataValidator checks records before aggregation and user input before
// lookups.
type DataValidator interface {
	ValidateOTCProduct(p *entities.OTCProduct) error
	ValidateIyakuProduct(p *entities.IyakuProduct) error
	ValidateInput(input string) error
}

// Scheduler manages the periodic dataset refresh in serve mode.
type Scheduler interface {
	Start() error
	Stop()
}
