// Package otcscraper crawls the PMDA OTC / quasi-drug catalog. The search
// space is partitioned by product-name leading character, each partition is
// paged to exhaustion, and every newly discovered product code gets exactly
// one detail fetch. Dedup is first-seen wins: a later sighting of a known
// code is discarded without re-fetching.
package otcscraper

import (
	"fmt"
	"time"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/interfaces"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/giygas/pmda-datasets/metrics"
	"github.com/giygas/pmda-datasets/pmdaclient"
)

// Scraper drives one OTC crawl run. It holds no cross-run state; the
// aggregation maps live in Run so injected gateways can replay recorded
// partitions in tests.
type Scraper struct {
	gateway   interfaces.OTCGateway
	validator interfaces.DataValidator

	// ListRows is the page size requested from the search endpoint.
	ListRows int
	// MaxProducts caps the number of unique codes collected across all
	// partitions; 0 means unlimited. The cap is a global hard stop, so
	// later prefixes may go unvisited.
	MaxProducts int
}

// New creates a scraper with the given gateway and validator.
func New(gateway interfaces.OTCGateway, validator interfaces.DataValidator, listRows, maxProducts int) *Scraper {
	return &Scraper{
		gateway:     gateway,
		validator:   validator,
		ListRows:    listRows,
		MaxProducts: maxProducts,
	}
}

// Result is the outcome of one crawl run: products in discovery order plus
// run metadata for the dataset file.
type Result struct {
	Products []entities.OTCProduct
	Metadata entities.OTCRunMetadata
}

// Run executes the crawl. Only the session bootstrap and the suggest-list
// fetch are fatal (total inability to reach the host); every later failure
// skips its unit of work, is recorded in the metadata, and the run
// continues.
func (s *Scraper) Run() (*Result, error) {
	if err := s.gateway.InitSession(); err != nil {
		return nil, fmt.Errorf("failed to initialize search session: %w", err)
	}

	lib, err := s.gateway.FetchSuggestList()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch name suggest list: %w", err)
	}

	prefixes := ParsePrefixes(lib)
	logging.Info("OTC prefix partitions enumerated", "count", len(prefixes))

	rowsByCode := make(map[string]entities.SearchRow)
	var order []string
	var failedPrefixes []string
	totalHits := 0
	visited := 0

	for _, prefix := range prefixes {
		rows, hits, err := s.searchPrefix(prefix)
		if err != nil {
			logging.Warn("Prefix search failed, skipping partition", "prefix", prefix, "error", err)
			failedPrefixes = append(failedPrefixes, prefix)
			continue
		}

		visited++
		totalHits += hits

		for _, row := range rows {
			if row.Code == "" {
				continue
			}
			if _, seen := rowsByCode[row.Code]; seen {
				continue
			}
			rowsByCode[row.Code] = row
			order = append(order, row.Code)
		}

		logging.Info("Prefix partition processed",
			"prefix", prefix,
			"hits", hits,
			"unique_codes", len(order))

		if s.MaxProducts > 0 && len(order) >= s.MaxProducts {
			logging.Info("Max products cap reached, stopping partition iteration",
				"cap", s.MaxProducts,
				"prefixes_visited", visited,
				"prefixes_total", len(prefixes))
			break
		}
	}

	selected := order
	if s.MaxProducts > 0 && len(selected) > s.MaxProducts {
		selected = selected[:s.MaxProducts]
	}

	logging.Info("Detail fetch starting", "target", len(selected))

	products := make([]entities.OTCProduct, 0, len(selected))
	var failedCodes []string

	for i, code := range selected {
		product, err := s.fetchProduct(rowsByCode[code])
		if err != nil {
			logging.Warn("Detail fetch failed, product recorded as incomplete",
				"code", code, "error", err)
			failedCodes = append(failedCodes, code)
			continue
		}

		if err := s.validator.ValidateOTCProduct(product); err != nil {
			logging.Warn("Skipping invalid product", "code", code, "error", err)
			failedCodes = append(failedCodes, code)
			continue
		}

		products = append(products, *product)
		metrics.ProductsCollectedTotal.WithLabelValues("otc").Inc()

		if (i+1)%20 == 0 || i+1 == len(selected) {
			logging.Info("Detail fetch progress", "done", i+1, "total", len(selected))
		}
	}

	return &Result{
		Products: products,
		Metadata: entities.OTCRunMetadata{
			Source:               "PMDA 一般用医薬品・要指導医薬品 添付文書等情報検索",
			SourceURL:            pmdaclient.OTCSearchURL,
			FetchedAt:            time.Now().UTC().Format(time.RFC3339),
			PrefixCount:          len(prefixes),
			PrefixesVisited:      visited,
			TotalSearchHits:      totalHits,
			UniqueCodesCollected: len(order),
			DetailRecords:        len(products),
			DetailFailedCodes:    failedCodes,
			FailedPrefixes:       failedPrefixes,
		},
	}, nil
}

// searchPrefix pages through one prefix partition. A page-change failure
// abandons the remaining pages of the partition but keeps the rows already
// extracted.
func (s *Scraper) searchPrefix(prefix string) ([]entities.SearchRow, int, error) {
	page, err := s.gateway.Search(prefix, s.ListRows)
	if err != nil {
		return nil, 0, err
	}

	hidden := pmdaclient.ParseHiddenInputs(page)
	count := pmdaclient.ParseSearchCount(page)
	totalPages := pmdaclient.ParseTotalPages(page)

	rows := ParseResultRows(page)

	for pageNum := 2; pageNum <= totalPages; pageNum++ {
		fragment, err := s.gateway.ChangePage(pageNum, hidden)
		if err != nil {
			logging.Warn("Page change failed, partition left partial",
				"prefix", prefix, "page", pageNum, "error", err)
			break
		}

		pageRows := ParseResultRows(fragment)
		rows = append(rows, pageRows...)

		if len(pageRows) < s.ListRows {
			// Short page: the result set is exhausted regardless of what
			// totalPages claimed.
			break
		}
	}

	return rows, count, nil
}

// fetchProduct fetches and extracts one product detail page.
func (s *Scraper) fetchProduct(row entities.SearchRow) (*entities.OTCProduct, error) {
	detailHTML, err := s.gateway.FetchDetail(row.Code)
	if err != nil {
		return nil, err
	}

	fields := ParseDetailFields(detailHTML)
	ingredientText := PickField(fields, "成分分量", "成分・分量")
	ingredients := ParseIngredients(ingredientText)
	for _, ing := range ingredients {
		metrics.ExtractionEntriesTotal.WithLabelValues(ing.Origin).Inc()
	}

	return &entities.OTCProduct{
		Code:           row.Code,
		ProductName:    row.ProductName,
		Manufacturer:   row.Manufacturer,
		Category:       PickField(fields, "薬効分類"),
		RiskClass:      PickField(fields, "リスク区分"),
		DosageForm:     PickField(fields, "剤形"),
		Classification: PickField(fields, "医薬品区分"),
		IngredientText: ingredientText,
		Ingredients:    ingredients,
		Additives:      ParseAdditives(PickField(fields, "添加物")),
		Source: entities.OTCSource{
			DetailHTMLURL: pmdaclient.OTCDetailLink(row.Code),
			GeneralURL:    pmdaclient.OTCGeneralLink(row.Code),
			PDFURL:        pmdaclient.OTCPDFLink(row.Code),
		},
	}, nil
}
