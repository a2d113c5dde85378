// Package entities defines the data records shared by the PMDA scrapers,
// the dataset writer and the serving layer.
package entities

// Ingredient origin tags. A structured entry was matched by a known
// name+amount text pattern, a candidate entry was derived by splitting a
// generic-name string, and a raw entry preserves text no pattern matched.
const (
	OriginStructured = "structured"
	OriginCandidate  = "candidate"
	OriginRaw        = "raw"
)

// Ingredient is one entry of a product's ingredient list. Exactly one of
// Name (with optional Amount) or RawText is populated, discriminated by
// Origin.
type Ingredient struct {
	Name    string `json:"name,omitempty"`
	Amount  string `json:"amount,omitempty"`
	RawText string `json:"raw_text,omitempty"`
	Origin  string `json:"origin"`
}

// Named reports whether the entry carries an ingredient name usable for
// indexing (structured or candidate, but not raw).
func (i Ingredient) Named() bool {
	return i.Name != "" && i.Origin != OriginRaw
}
