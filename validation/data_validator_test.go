package validation

import (
	"strings"
	"testing"

	"github.com/giygas/pmda-datasets/entities"
)

func validOTCProduct() *entities.OTCProduct {
	return &entities.OTCProduct{
		Code:         "670095_3_02",
		ProductName:  "テスト胃腸薬",
		Manufacturer: "テスト製薬",
		Ingredients: []entities.Ingredient{
			{Name: "アセトアミノフェン", Amount: "300mg", Origin: entities.OriginStructured},
		},
	}
}

func TestValidateOTCProduct(t *testing.T) {
	v := NewDataValidator()

	if err := v.ValidateOTCProduct(validOTCProduct()); err != nil {
		t.Errorf("valid product rejected: %v", err)
	}

	if err := v.ValidateOTCProduct(nil); err == nil {
		t.Error("nil product accepted")
	}

	p := validOTCProduct()
	p.Code = ""
	if err := v.ValidateOTCProduct(p); err == nil {
		t.Error("empty code accepted")
	}

	p = validOTCProduct()
	p.Code = "12 34"
	if err := v.ValidateOTCProduct(p); err == nil {
		t.Error("code with whitespace accepted")
	}

	p = validOTCProduct()
	p.ProductName = "  "
	if err := v.ValidateOTCProduct(p); err == nil {
		t.Error("blank product name accepted")
	}

	p = validOTCProduct()
	p.ProductName = strings.Repeat("あ", 200)
	if err := v.ValidateOTCProduct(p); err == nil {
		t.Error("oversized product name accepted")
	}
}

func TestValidateOTCProductRawIngredientAllowed(t *testing.T) {
	v := NewDataValidator()

	p := validOTCProduct()
	p.Ingredients = []entities.Ingredient{
		{RawText: "生薬配合のため表記なし", Origin: entities.OriginRaw},
	}
	if err := v.ValidateOTCProduct(p); err != nil {
		t.Errorf("raw fallback ingredient rejected: %v", err)
	}

	p.Ingredients = []entities.Ingredient{{Name: "", Origin: entities.OriginStructured}}
	if err := v.ValidateOTCProduct(p); err == nil {
		t.Error("structured ingredient without name accepted")
	}
}

func TestValidateIyakuProduct(t *testing.T) {
	v := NewDataValidator()

	p := &entities.IyakuProduct{
		GenericName:  "アセトアミノフェン",
		ProductName:  "カロナール錠200",
		Manufacturer: "あゆみ製薬",
		Documents:    entities.DocumentInfo{UpdateDate: "2024-01-15"},
	}
	if err := v.ValidateIyakuProduct(p); err != nil {
		t.Errorf("valid product rejected: %v", err)
	}

	if err := v.ValidateIyakuProduct(nil); err == nil {
		t.Error("nil product accepted")
	}

	p.ProductName = ""
	if err := v.ValidateIyakuProduct(p); err == nil {
		t.Error("empty product name accepted")
	}

	p.ProductName = "カロナール錠200"
	p.Documents.UpdateDate = "2024/1/15"
	if err := v.ValidateIyakuProduct(p); err == nil {
		t.Error("malformed update date accepted")
	}
}

func TestValidateInput(t *testing.T) {
	v := NewDataValidator()

	valid := []string{
		"アセトアミノフェン",
		"670095_3_02",
		"dl-メチルエフェドリン塩酸塩",
		"ビタミンB2",
	}
	for _, input := range valid {
		if err := v.ValidateInput(input); err != nil {
			t.Errorf("ValidateInput(%q) rejected: %v", input, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"<script>alert(1)</script>",
		"' or 1=1 --",
		"../../etc/passwd",
		"`rm -rf`",
		strings.Repeat("a", 201),
	}
	for _, input := range invalid {
		if err := v.ValidateInput(input); err == nil {
			t.Errorf("ValidateInput(%q) accepted", input)
		}
	}
}
