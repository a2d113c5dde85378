package dataset

import (
	"testing"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/stretchr/testify/require"
)

func sampleOTCProducts() []entities.OTCProduct {
	return []entities.OTCProduct{
		{
			Code:         "1000_01",
			ProductName:  "鎮痛薬B",
			Manufacturer: "メーカー1",
			Ingredients: []entities.Ingredient{
				{Name: "アセトアミノフェン", Amount: "300mg", Origin: entities.OriginStructured},
				{Name: "無水カフェイン", Amount: "25mg", Origin: entities.OriginStructured},
			},
		},
		{
			Code:         "1000_02",
			ProductName:  "鎮痛薬A",
			Manufacturer: "メーカー2",
			Ingredients: []entities.Ingredient{
				{Name: "アセトアミノフェン", Amount: "200mg", Origin: entities.OriginStructured},
			},
		},
		{
			Code:        "1000_03",
			ProductName: "生薬製剤",
			Ingredients: []entities.Ingredient{
				{RawText: "生薬配合のため表記なし", Origin: entities.OriginRaw},
			},
		},
	}
}

func TestBuildOTCIndex(t *testing.T) {
	index := BuildOTCIndex(sampleOTCProducts())

	// Raw entries never become index keys, so only the two named
	// ingredients appear.
	require.Len(t, index, 2)

	entry := index["アセトアミノフェン"]
	require.NotNil(t, entry)
	require.Equal(t, 2, entry.Count)
	require.Len(t, entry.Products, 2)

	// Products are sorted by name for stable output.
	require.Equal(t, "鎮痛薬A", entry.Products[0].ProductName)
	require.Equal(t, "鎮痛薬B", entry.Products[1].ProductName)
	require.Equal(t, "1000_02", entry.Products[0].Code)

	caffeine := index["無水カフェイン"]
	require.NotNil(t, caffeine)
	require.Equal(t, 1, caffeine.Count)
}

// Every index entry must be reachable from the product list and vice
// versa: the index carries no state of its own.
func TestBuildOTCIndexDerivable(t *testing.T) {
	products := sampleOTCProducts()
	index := BuildOTCIndex(products)

	for name, entry := range index {
		for _, ref := range entry.Products {
			found := false
			for _, p := range products {
				if p.Code != ref.Code {
					continue
				}
				for _, ing := range p.Ingredients {
					if ing.Named() && ing.Name == name {
						found = true
					}
				}
			}
			require.True(t, found, "index entry %q -> %q has no backing product", name, ref.Code)
		}
	}

	for _, p := range products {
		for _, ing := range p.Ingredients {
			if !ing.Named() {
				continue
			}
			require.Contains(t, index, ing.Name)
		}
	}
}

func TestBuildOTCIndexDedupsProductPerIngredient(t *testing.T) {
	products := []entities.OTCProduct{{
		Code:        "2000_01",
		ProductName: "配合錠",
		Ingredients: []entities.Ingredient{
			{Name: "カフェイン", Amount: "25mg", Origin: entities.OriginStructured},
			{Name: "カフェイン", Amount: "50mg", Origin: entities.OriginStructured},
		},
	}}

	index := BuildOTCIndex(products)
	require.Equal(t, 1, index["カフェイン"].Count)
}

func TestBuildIyakuIndex(t *testing.T) {
	products := []entities.IyakuProduct{
		{
			GenericName:  "テルミサルタン・アムロジピンベシル酸塩",
			ProductName:  "ミカムロ配合錠AP",
			Manufacturer: "メーカー1",
			Ingredients: []entities.Ingredient{
				{Name: "テルミサルタン", Origin: entities.OriginCandidate},
				{Name: "アムロジピンベシル酸塩", Origin: entities.OriginCandidate},
			},
		},
		{
			GenericName:  "テルミサルタン",
			ProductName:  "ミカルディス錠40mg",
			Manufacturer: "メーカー1",
			Ingredients: []entities.Ingredient{
				{Name: "テルミサルタン", Origin: entities.OriginCandidate},
			},
		},
	}

	index := BuildIyakuIndex(products)
	require.Len(t, index, 2)

	entry := index["テルミサルタン"]
	require.Equal(t, 2, entry.Count)
	require.Equal(t, "ミカムロ配合錠AP", entry.Products[0].ProductName)
	require.Equal(t, "", entry.Products[0].Code, "prescription refs carry no code")
	require.NotEmpty(t, entry.Products[0].GenericName)
}

func TestBuildIndexEmpty(t *testing.T) {
	require.Empty(t, BuildOTCIndex(nil))
	require.Empty(t, BuildIyakuIndex(nil))
}
