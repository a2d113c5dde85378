package iyakuscraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/giygas/pmda-datasets/metrics"
	"github.com/giygas/pmda-datasets/pmdaclient"
	"github.com/giygas/pmda-datasets/textutil"
)

var (
	parenNoteRe      = regexp.MustCompile(`（[^）]*）|\([^)]*\)`)
	componentSepRe   = regexp.MustCompile(`[・＋+／/,，]`)
	docUpdateDateRe  = regexp.MustCompile(`PDF\((\d{4})年(\d{2})月(\d{2})日\)`)
	leadingListPunct = ",， "
)

// noiseComponents are qualifiers that survive the separator split but are
// not ingredient names themselves.
var noiseComponents = map[string]bool{
	"遺伝子組換え":  true,
	"遺伝子組み換え": true,
}

// SplitGenericComponents decomposes a generic (nonproprietary) name into
// its component ingredient names. Combination drugs join components with
// 中黒 or slash separators; parenthesized salt/strength notes and the
// 配合剤 suffix are stripped first. When nothing survives the split the
// whole normalized name is returned so the product still indexes under
// something.
func SplitGenericComponents(genericName string) []string {
	whole := textutil.Normalize(genericName)
	if whole == "" {
		return nil
	}

	text := parenNoteRe.ReplaceAllString(whole, " ")
	text = strings.ReplaceAll(text, "配合剤", " ")
	text = textutil.Normalize(text)

	seen := make(map[string]bool)
	var out []string
	for _, part := range componentSepRe.Split(text, -1) {
		name := strings.TrimSpace(part)
		name = strings.Trim(name, "[]【】")
		if name == "" || noiseComponents[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}

	if len(out) == 0 {
		return []string{whole}
	}
	return out
}

// ParseDocField interprets a package-insert document cell. The cell lists
// the available formats and tags the PDF with its revision date, e.g.
// "PDF(2024年03月15日) HTML".
func ParseDocField(docField string) entities.DocumentInfo {
	doc := textutil.Normalize(docField)
	info := entities.DocumentInfo{
		Raw:     doc,
		HasPDF:  strings.Contains(doc, "PDF"),
		HasHTML: strings.Contains(doc, "HTML"),
		HasXML:  strings.Contains(doc, "XML"),
	}
	if m := docUpdateDateRe.FindStringSubmatch(doc); m != nil {
		info.UpdateDate = fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	}
	return info
}

// buildProduct turns one export row into a product, or nil for rows with
// no sales name (continuation rows of multi-line exports).
func buildProduct(row map[string]string, partition entities.DatePartition) *entities.IyakuProduct {
	productName := strings.TrimLeft(textutil.Normalize(row[colProductName]), leadingListPunct)
	if productName == "" {
		return nil
	}

	genericName := strings.TrimLeft(textutil.Normalize(row[colGenericName]), leadingListPunct)

	var ingredients []entities.Ingredient
	for _, component := range SplitGenericComponents(genericName) {
		ingredients = append(ingredients, entities.Ingredient{
			Name:   component,
			Origin: entities.OriginCandidate,
		})
	}

	return &entities.IyakuProduct{
		GenericName:    genericName,
		ProductName:    productName,
		Manufacturer:   textutil.Normalize(row[colManufacturer]),
		Classification: textutil.Normalize(row[colClassification]),
		IngredientText: genericName,
		Ingredients:    ingredients,
		Documents:      ParseDocField(row[colDocuments]),
		PatientGuide:   textutil.Normalize(row[colPatientGuide]),
		InterviewForm:  textutil.Normalize(row[colInterviewForm]),
		Source: entities.IyakuSource{
			QueryStart: partition.FromDate,
			QueryEnd:   partition.ToDate,
			SearchURL:  pmdaclient.IyakuSearchURL,
		},
	}
}

// aggregator dedups products on the (generic name, sales name,
// manufacturer) tuple while keeping discovery order. On a tuple collision
// the entry with the newer insert revision date wins in place; ties keep
// the earlier sighting.
type aggregator struct {
	byKey map[string]int
	items []entities.IyakuProduct
}

func newAggregator() *aggregator {
	return &aggregator{byKey: make(map[string]int)}
}

// add reports whether the product was stored, either as a new tuple or as
// a newer revision replacing the kept entry.
func (a *aggregator) add(p entities.IyakuProduct) bool {
	key := p.Key()
	if idx, seen := a.byKey[key]; seen {
		// Revision dates are ISO formatted, so string order is date order.
		if p.Documents.UpdateDate > a.items[idx].Documents.UpdateDate {
			a.items[idx] = p
			return true
		}
		return false
	}
	a.byKey[key] = len(a.items)
	a.items = append(a.items, p)
	metrics.ProductsCollectedTotal.WithLabelValues("iyaku").Inc()
	return true
}

func (a *aggregator) addRows(rows []map[string]string, partition entities.DatePartition, validator func(*entities.IyakuProduct) error) {
	for _, row := range rows {
		product := buildProduct(row, partition)
		if product == nil {
			continue
		}
		if err := validator(product); err != nil {
			logging.Warn("Skipping invalid product", "product", product.ProductName, "error", err)
			continue
		}
		// Count entries after dedup so repeat sightings of a tuple do not
		// inflate the extraction counters.
		if a.add(*product) {
			for _, ing := range product.Ingredients {
				metrics.ExtractionEntriesTotal.WithLabelValues(ing.Origin).Inc()
			}
		}
	}
}
