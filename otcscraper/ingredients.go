package otcscraper

import (
	"regexp"
	"strings"

	"github.com/giygas/pmda-datasets/entities"
)

// ingredientPairRe matches one "name amount" pair inside a dosage text
// block: a run of name characters followed by a number and a dose unit.
// The name class covers kanji, kana, latin, greek letters used in vitamin
// names, and the join characters (・, /, +) of combination drugs.
var ingredientPairRe = regexp.MustCompile(
	`([A-Za-z0-9一-龥ぁ-んァ-ヶー・αβγΑΒΓ\-\+／/\(\)]+)\s*` +
		`([0-9]+(?:\.[0-9]+)?\s*(?:mg|g|mL|ml|μg|µg|mcg|IU|国際単位|単位|mEq|%|％))`)

var (
	leadingDigitRe = regexp.MustCompile(`^[0-9０-９]`)
	wordCharRe     = regexp.MustCompile(`[A-Za-z一-龥ぁ-んァ-ヶ]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	additiveSepRe  = regexp.MustCompile(`[、,，\n]`)
)

// headingWords are table headings that the flattened cell text can leave
// adjacent to an amount; they are never ingredient names.
var headingWords = map[string]bool{
	"成分": true,
	"分量": true,
	"内訳": true,
}

var ingredientCleaner = strings.NewReplacer(
	"（", "(",
	"）", ")",
	"：", " ",
	"　", " ",
)

// ParseIngredients decomposes a dosage/ingredient text block into
// structured (name, amount) pairs. Extraction is best effort: when no
// known pattern matches a non-empty block, the block is preserved as a
// single raw entry instead of being dropped, and the caller keeps the
// original text alongside either way.
func ParseIngredients(ingredientText string) []entities.Ingredient {
	if strings.TrimSpace(ingredientText) == "" {
		return nil
	}

	text := ingredientCleaner.Replace(ingredientText)
	text = whitespaceRe.ReplaceAllString(text, " ")

	seen := make(map[[2]string]bool)
	var items []entities.Ingredient

	for _, m := range ingredientPairRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimLeft(strings.TrimSpace(m[1]), "・-")
		name = strings.Trim(name, "()（）[]【】")
		amount := strings.TrimSpace(m[2])

		if name == "" || headingWords[name] {
			continue
		}
		if leadingDigitRe.MatchString(name) {
			// A leading digit means the "name" is a dose fragment such as
			// "1錠中" left over from the table flattening.
			continue
		}
		if !wordCharRe.MatchString(name) {
			continue
		}

		key := [2]string{name, amount}
		if seen[key] {
			continue
		}
		seen[key] = true

		items = append(items, entities.Ingredient{
			Name:   name,
			Amount: amount,
			Origin: entities.OriginStructured,
		})
	}

	if len(items) == 0 {
		return []entities.Ingredient{{
			RawText: strings.TrimSpace(ingredientText),
			Origin:  entities.OriginRaw,
		}}
	}
	return items
}

// ParseAdditives splits an additive list on the enumeration separators the
// site uses, dropping empties and duplicates while keeping first-seen
// order.
func ParseAdditives(additiveText string) []string {
	if strings.TrimSpace(additiveText) == "" {
		return nil
	}

	parts := additiveSepRe.Split(additiveText, -1)
	seen := make(map[string]bool)
	var out []string
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
