// Package dataset derives the ingredient reverse indexes, writes the JSON
// dataset files, and holds the in-memory snapshot served in serve mode.
package dataset

import (
	"sort"

	"github.com/giygas/pmda-datasets/entities"
)

// BuildOTCIndex derives the ingredient → products reverse index from an
// OTC product list. Only named extraction entries participate; raw
// fallback entries never become index keys. Products under an ingredient
// are unique and sorted by name, then code, for stable output.
func BuildOTCIndex(products []entities.OTCProduct) map[string]*entities.IngredientIndexEntry {
	index := make(map[string]*entities.IngredientIndexEntry)
	seen := make(map[string]map[string]bool)

	for _, p := range products {
		ref := entities.ProductRef{
			Code:         p.Code,
			ProductName:  p.ProductName,
			Manufacturer: p.Manufacturer,
		}
		for _, ing := range p.Ingredients {
			if !ing.Named() {
				continue
			}
			addRef(index, seen, ing.Name, ref, p.Code)
		}
	}

	finalize(index)
	return index
}

// BuildIyakuIndex derives the reverse index for the prescription dataset.
// Prescription products have no catalog code, so the dedup key is the
// product identity tuple.
func BuildIyakuIndex(products []entities.IyakuProduct) map[string]*entities.IngredientIndexEntry {
	index := make(map[string]*entities.IngredientIndexEntry)
	seen := make(map[string]map[string]bool)

	for _, p := range products {
		ref := entities.ProductRef{
			ProductName:  p.ProductName,
			GenericName:  p.GenericName,
			Manufacturer: p.Manufacturer,
		}
		for _, ing := range p.Ingredients {
			if !ing.Named() {
				continue
			}
			addRef(index, seen, ing.Name, ref, p.Key())
		}
	}

	finalize(index)
	return index
}

func addRef(index map[string]*entities.IngredientIndexEntry, seen map[string]map[string]bool, name string, ref entities.ProductRef, refKey string) {
	entry, ok := index[name]
	if !ok {
		entry = &entities.IngredientIndexEntry{}
		index[name] = entry
		seen[name] = make(map[string]bool)
	}
	if seen[name][refKey] {
		return
	}
	seen[name][refKey] = true
	entry.Products = append(entry.Products, ref)
}

func finalize(index map[string]*entities.IngredientIndexEntry) {
	for _, entry := range index {
		sort.Slice(entry.Products, func(i, j int) bool {
			a, b := entry.Products[i], entry.Products[j]
			if a.ProductName != b.ProductName {
				return a.ProductName < b.ProductName
			}
			return a.Code < b.Code
		})
		entry.Count = len(entry.Products)
	}
}
