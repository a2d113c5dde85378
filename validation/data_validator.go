// Package validation checks crawled records before aggregation and user
// input before lookups.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/interfaces"
)

// Pre-compiled regex patterns for performance optimization
// Compiled once at package initialization and reused for all validations
var (
	// Catalog codes are alphanumeric identifiers with underscore-joined
	// segments, e.g. 670095_3_02.
	codeRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	// Input validation: latin alphanumerics, Japanese scripts and the safe
	// punctuation that appears in drug names, ingredient names and codes.
	inputRegex = regexp.MustCompile(`^[A-Za-z0-9_\s\-\.\+・／/%％一-龥ぁ-んァ-ヶー０-９ａ-ｚＡ-Ｚ（）()]+$`)

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(", "@import",
		"' or ", "\" or ", "union select", "drop table", "--", "/*",
		"../", "..\\", "%2e%2e", "file://",
		"`", "$(", "${",
	}
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateOTCProduct checks if an OTC product record is valid.
func (v *DataValidatorImpl) ValidateOTCProduct(p *entities.OTCProduct) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("empty product code")
	}
	if !codeRegex.MatchString(p.Code) {
		return fmt.Errorf("invalid product code: %q", p.Code)
	}

	if strings.TrimSpace(p.ProductName) == "" {
		return fmt.Errorf("empty product name for code %s", p.Code)
	}
	if len(p.ProductName) > 500 {
		return fmt.Errorf("product name too long for code %s: %d bytes", p.Code, len(p.ProductName))
	}

	if len(p.Manufacturer) > 300 {
		return fmt.Errorf("manufacturer too long for code %s: %d bytes", p.Code, len(p.Manufacturer))
	}

	for _, ing := range p.Ingredients {
		if ing.Origin == entities.OriginRaw {
			continue
		}
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("empty ingredient name for code %s", p.Code)
		}
		if len(ing.Name) > 300 {
			return fmt.Errorf("ingredient name too long for code %s: %d bytes", p.Code, len(ing.Name))
		}
	}

	return nil
}

// ValidateIyakuProduct checks if a prescription product record is valid.
func (v *DataValidatorImpl) ValidateIyakuProduct(p *entities.IyakuProduct) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	if strings.TrimSpace(p.ProductName) == "" {
		return fmt.Errorf("empty product name")
	}
	if len(p.ProductName) > 500 {
		return fmt.Errorf("product name too long: %d bytes", len(p.ProductName))
	}

	if len(p.GenericName) > 1000 {
		return fmt.Errorf("generic name too long for %s: %d bytes", p.ProductName, len(p.GenericName))
	}
	if len(p.Manufacturer) > 300 {
		return fmt.Errorf("manufacturer too long for %s: %d bytes", p.ProductName, len(p.Manufacturer))
	}

	if p.Documents.UpdateDate != "" {
		if len(p.Documents.UpdateDate) != 10 {
			return fmt.Errorf("malformed update date for %s: %q", p.ProductName, p.Documents.UpdateDate)
		}
	}

	return nil
}

// ValidateInput checks a user-supplied lookup parameter.
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	if len(input) > 200 {
		return fmt.Errorf("input too long: %d bytes", len(input))
	}

	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("input contains disallowed pattern")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains unsupported characters")
	}

	return nil
}
