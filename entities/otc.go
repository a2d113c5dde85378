package entities

// SearchRow is one row of an OTC search result list, discovered while
// paging through a name-prefix partition.
type SearchRow struct {
	Code         string `json:"code"`
	ProductName  string `json:"product_name"`
	Manufacturer string `json:"manufacturer"`
}

// OTCSource records where an OTC product's data came from.
type OTCSource struct {
	DetailHTMLURL string `json:"detail_html_url"`
	GeneralURL    string `json:"general_url"`
	PDFURL        string `json:"pdf_url"`
}

// OTCProduct is one over-the-counter / quasi-drug product. It is created
// on the first detail-page fetch for its code and never updated afterwards;
// a second sighting of the same code is discarded.
type OTCProduct struct {
	Code           string       `json:"code"`
	ProductName    string       `json:"product_name"`
	Manufacturer   string       `json:"manufacturer"`
	Category       string       `json:"category"`
	RiskClass      string       `json:"risk_class"`
	DosageForm     string       `json:"dosage_form"`
	Classification string       `json:"classification"`
	IngredientText string       `json:"ingredient_text"`
	Ingredients    []Ingredient `json:"ingredients"`
	Additives      []string     `json:"additives"`
	Source         OTCSource    `json:"source"`
}

// OTCRunMetadata summarizes one OTC crawl run and is embedded in the
// products dataset file.
type OTCRunMetadata struct {
	Source               string   `json:"source"`
	SourceURL            string   `json:"source_url"`
	FetchedAt            string   `json:"fetched_at"`
	PrefixCount          int      `json:"prefix_count"`
	PrefixesVisited      int      `json:"prefixes_visited"`
	TotalSearchHits      int      `json:"total_search_hits_across_prefixes"`
	UniqueCodesCollected int      `json:"unique_codes_collected"`
	DetailRecords        int      `json:"detail_records"`
	DetailFailedCodes    []string `json:"detail_failed_codes"`
	FailedPrefixes       []string `json:"failed_prefixes"`
}
