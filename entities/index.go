package entities

// ProductRef is the per-product entry stored under an ingredient in the
// reverse index. OTC entries carry Code, prescription entries carry
// GenericName instead.
type ProductRef struct {
	Code         string `json:"code,omitempty"`
	ProductName  string `json:"product_name"`
	GenericName  string `json:"generic_name,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

// IngredientIndexEntry maps one ingredient name to the products that
// reference it. The index is derived from the product list after
// aggregation and carries no independent state.
type IngredientIndexEntry struct {
	Count    int          `json:"count"`
	Products []ProductRef `json:"products"`
}

// IndexMetadata is embedded in the ingredient index files.
type IndexMetadata struct {
	GeneratedAt     string `json:"generated_at"`
	SourceFile      string `json:"source_file"`
	IngredientCount int    `json:"ingredient_count"`
}

// DatasetSnapshot is one consistent in-memory aggregation of both catalogs,
// produced by a refresh and swapped into the serving container atomically.
type DatasetSnapshot struct {
	OTCProducts   []OTCProduct
	IyakuProducts []IyakuProduct
	OTCIndex      map[string]*IngredientIndexEntry
	IyakuIndex    map[string]*IngredientIndexEntry
}
