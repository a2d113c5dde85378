// Package iyakuscraper crawls the PMDA prescription-drug catalog. The
// catalog caps any single search at a fixed result count, so the crawl
// recursively bisects the requested revision-date range until every leaf
// partition fits under the cap, then pulls each non-empty leaf through the
// CSV export endpoint in one request.
package iyakuscraper

import (
	"fmt"
	"strconv"
	"time"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/interfaces"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/giygas/pmda-datasets/pmdaclient"
)

const formDate = "20060102"

// Scraper drives one prescription crawl run.
type Scraper struct {
	gateway   interfaces.IyakuGateway
	validator interfaces.DataValidator

	// ListRows is the page size requested from the search endpoint. The
	// export ignores it, but the probe searches carry it like a browser
	// would.
	ListRows int
	// MaxSearchCount is the server-side result cap a single search can
	// return; ranges probing above it get bisected.
	MaxSearchCount int
}

// New creates a scraper with the given gateway and validator.
func New(gateway interfaces.IyakuGateway, validator interfaces.DataValidator, listRows, maxSearchCount int) *Scraper {
	return &Scraper{
		gateway:        gateway,
		validator:      validator,
		ListRows:       listRows,
		MaxSearchCount: maxSearchCount,
	}
}

// Result is the outcome of one crawl run: products in discovery order, the
// leaf partitions the range resolved to, and run metadata for the dataset
// file.
type Result struct {
	Products   []entities.IyakuProduct
	Partitions []entities.DatePartition
	Metadata   entities.IyakuRunMetadata
}

// Run executes the crawl over the inclusive [from, to] revision-date
// range. Only the session bootstrap is fatal; probe and export failures
// skip their subrange, are recorded in the metadata, and the run
// continues.
func (s *Scraper) Run(from, to time.Time) (*Result, error) {
	defaults, err := s.gateway.InitSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search session: %w", err)
	}

	searchRequests := 0
	// The export endpoint replays the session's last search, identified by
	// the hidden form state of its result page. Each leaf's export reuses
	// the state captured when that exact range was probed.
	hiddenByRange := make(map[string]map[string]string)

	probe := func(f, t time.Time) (int, error) {
		page, err := s.gateway.Search(s.searchForm(defaults, f, t))
		if err != nil {
			return 0, err
		}
		searchRequests++
		hiddenByRange[rangeKey(f, t)] = pmdaclient.ParseHiddenInputs(page)
		return pmdaclient.ParseSearchCount(page), nil
	}

	leaves, failed := BisectRange(from, to, s.MaxSearchCount, probe)
	logging.Info("Date range partitioned",
		"from", from.Format(dateLayout),
		"to", to.Format(dateLayout),
		"partitions", len(leaves),
		"failed", len(failed))

	agg := newAggregator()
	exportRequests := 0
	rawRows := 0
	var truncated []entities.DatePartition

	for _, p := range leaves {
		if p.Truncated {
			truncated = append(truncated, p)
		}
		if p.Count == 0 {
			continue
		}

		csvText, err := s.gateway.ExportCSV(s.exportForm(hiddenByRange[rangeKey(p.From, p.To)], p))
		if err != nil {
			logging.Warn("CSV export failed, partition skipped",
				"from", p.FromDate, "to", p.ToDate, "error", err)
			failed = append(failed, p)
			continue
		}
		exportRequests++

		rows := ParseExportCSV(csvText)
		rawRows += len(rows)
		agg.addRows(rows, p, s.validator.ValidateIyakuProduct)

		logging.Info("Partition exported",
			"from", p.FromDate,
			"to", p.ToDate,
			"rows", len(rows),
			"unique_products", len(agg.items))
	}

	return &Result{
		Products:   agg.items,
		Partitions: leaves,
		Metadata: entities.IyakuRunMetadata{
			Source:              "PMDA 医療用医薬品 情報検索",
			SourceURL:           pmdaclient.IyakuSearchURL,
			FetchedAt:           time.Now().UTC().Format(time.RFC3339),
			FromDate:            from.Format(dateLayout),
			ToDate:              to.Format(dateLayout),
			MaxSearchCount:      s.MaxSearchCount,
			SearchRequests:      searchRequests,
			ExportRequests:      exportRequests,
			RawExportRows:       rawRows,
			UniqueProducts:      len(agg.items),
			TruncatedPartitions: truncated,
			FailedPartitions:    failed,
		},
	}, nil
}

func rangeKey(from, to time.Time) string {
	return from.Format(dateLayout) + "|" + to.Format(dateLayout)
}

// searchForm builds the probe search form: the session's form defaults
// with the revision-date window and the match mode (partial match on an
// empty name, i.e. everything revised in the window).
func (s *Scraper) searchForm(defaults map[string]string, from, to time.Time) map[string]string {
	form := make(map[string]string, len(defaults)+8)
	for k, v := range defaults {
		form[k] = v
	}
	form["nameWord"] = ""
	form["iyakuHowtoNameSearchRadioValue"] = "3"
	form["howtoMatchRadioValue"] = "2"
	form["updateDocFrDt"] = from.Format(formDate)
	form["updateDocToDt"] = to.Format(formDate)
	form["ListRows"] = strconv.Itoa(s.ListRows)
	form["btnA.x"] = "0"
	form["btnA.y"] = "0"
	return form
}

// exportForm builds the CSV export form for a probed partition. The
// endpoint wants the display labels of the search it is exporting plus
// the hidden state of that search's result page; exportCols selects the
// six catalog columns.
func (s *Scraper) exportForm(hidden map[string]string, p entities.DatePartition) map[string]string {
	form := map[string]string{
		"searchNameTitle":      "医療用医薬品 情報検索",
		"leftSearchName":       "医薬品の添付文書等を調べる",
		"leftSearchCondition":  fmt.Sprintf("改訂年月日:%s〜%s", p.From.Format(formDate), p.To.Format(formDate)),
		"rightSearchName":      "関連文書を調べる",
		"rightSearchCondition": "",
		"logicalOperators":     "or",
		"exportCols":           "0,1,2,3,4,5",
	}
	for k, v := range hidden {
		form[k] = v
	}
	for i := 0; i < 19; i++ {
		key := fmt.Sprintf("dispColumnsList[%d]", i)
		if _, ok := form[key]; !ok {
			form[key] = ""
		}
	}
	return form
}
