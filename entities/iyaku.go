package entities

import "time"

// DocumentInfo captures which package-insert document types exist for a
// prescription product and when the insert was last revised.
type DocumentInfo struct {
	Raw        string `json:"raw"`
	HasPDF     bool   `json:"has_pdf"`
	HasHTML    bool   `json:"has_html"`
	HasXML     bool   `json:"has_xml"`
	UpdateDate string `json:"update_date"`
}

// IyakuSource records the date partition a prescription row was exported
// from.
type IyakuSource struct {
	QueryStart string `json:"query_start"`
	QueryEnd   string `json:"query_end"`
	SearchURL  string `json:"search_url"`
}

// IyakuProduct is one prescription drug row. The catalog exposes no unique
// code, so identity is the normalized (generic name, sales name,
// manufacturer) tuple.
type IyakuProduct struct {
	GenericName    string       `json:"generic_name"`
	ProductName    string       `json:"product_name"`
	Manufacturer   string       `json:"manufacturer"`
	Classification string       `json:"classification"`
	IngredientText string       `json:"ingredient_text"`
	Ingredients    []Ingredient `json:"ingredients"`
	Documents      DocumentInfo `json:"documents"`
	PatientGuide   string       `json:"patient_guide"`
	InterviewForm  string       `json:"interview_form"`
	Source         IyakuSource  `json:"source"`
}

// Key returns the dedup key tuple for the product. Fields are joined with
// a separator that cannot occur in the normalized values.
func (p IyakuProduct) Key() string {
	return p.GenericName + "\x1f" + p.ProductName + "\x1f" + p.Manufacturer
}

// DatePartition is an inclusive [From, To] subrange of the requested crawl
// range. Partitions are contiguous, non-overlapping, and together cover the
// whole range. Truncated marks a single-day leaf whose probed count still
// exceeded the server cap.
type DatePartition struct {
	From      time.Time `json:"-"`
	To        time.Time `json:"-"`
	FromDate  string    `json:"from"`
	ToDate    string    `json:"to"`
	Count     int       `json:"count"`
	Truncated bool      `json:"truncated,omitempty"`
}

// IyakuRunMetadata summarizes one prescription crawl run.
type IyakuRunMetadata struct {
	Source              string          `json:"source"`
	SourceURL           string          `json:"source_url"`
	FetchedAt           string          `json:"fetched_at"`
	FromDate            string          `json:"from_date"`
	ToDate              string          `json:"to_date"`
	MaxSearchCount      int             `json:"max_search_count"`
	SearchRequests      int             `json:"search_requests"`
	ExportRequests      int             `json:"export_requests"`
	RawExportRows       int             `json:"raw_export_rows"`
	UniqueProducts      int             `json:"unique_products"`
	UniqueIngredients   int             `json:"unique_ingredients"`
	TruncatedPartitions []DatePartition `json:"truncated_partitions,omitempty"`
	FailedPartitions    []DatePartition `json:"failed_partitions,omitempty"`
}
