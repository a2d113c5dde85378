package iyakuscraper

import (
	"testing"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSplitGenericComponents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single ingredient",
			input:    "アセトアミノフェン",
			expected: []string{"アセトアミノフェン"},
		},
		{
			name:     "combination with nakaguro",
			input:    "テルミサルタン・アムロジピンベシル酸塩",
			expected: []string{"テルミサルタン", "アムロジピンベシル酸塩"},
		},
		{
			name:     "parenthesized note stripped",
			input:    "インスリン グラルギン（遺伝子組換え）",
			expected: []string{"インスリン グラルギン"},
		},
		{
			name:     "haigozai suffix stripped",
			input:    "レボドパ・カルビドパ配合剤",
			expected: []string{"レボドパ", "カルビドパ"},
		},
		{
			name:     "genetic qualifier dropped after split",
			input:    "ソマトロピン・遺伝子組換え",
			expected: []string{"ソマトロピン"},
		},
		{
			name:     "duplicates collapsed",
			input:    "カフェイン／カフェイン",
			expected: []string{"カフェイン"},
		},
		{
			name:     "empty name",
			input:    "  ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, SplitGenericComponents(tt.input))
		})
	}
}

// When stripping leaves nothing splittable, the whole normalized name is
// kept so the product still lands in the index.
func TestSplitGenericComponentsFallback(t *testing.T) {
	got := SplitGenericComponents("（外用）")
	require.Equal(t, []string{"(外用)"}, got)
}

func TestParseDocField(t *testing.T) {
	info := ParseDocField("PDF(2024年03月15日) HTML")
	require.True(t, info.HasPDF)
	require.True(t, info.HasHTML)
	require.False(t, info.HasXML)
	require.Equal(t, "2024-03-15", info.UpdateDate)

	empty := ParseDocField("")
	require.False(t, empty.HasPDF)
	require.Equal(t, "", empty.UpdateDate)
}

func TestBuildProductSkipsRowsWithoutName(t *testing.T) {
	partition := newPartition(day("2024-01-01"), day("2024-01-31"), 10, false)
	require.Nil(t, buildProduct(map[string]string{colGenericName: "アセトアミノフェン"}, partition))
}

func TestBuildProduct(t *testing.T) {
	partition := newPartition(day("2024-01-01"), day("2024-01-31"), 10, false)
	row := map[string]string{
		colGenericName:   "テルミサルタン・アムロジピンベシル酸塩",
		colProductName:   "ミカムロ配合錠ＡＰ",
		colManufacturer:  "日本ベーリンガーインゲルハイム",
		colDocuments:     "PDF(2024年01月10日) HTML XML",
		colPatientGuide:  "PDF",
		colInterviewForm: "PDF",
	}

	p := buildProduct(row, partition)
	require.NotNil(t, p)
	require.Equal(t, "ミカムロ配合錠AP", p.ProductName)
	require.Len(t, p.Ingredients, 2)
	for _, ing := range p.Ingredients {
		require.Equal(t, entities.OriginCandidate, ing.Origin)
		require.True(t, ing.Named())
	}
	require.True(t, p.Documents.HasXML)
	require.Equal(t, "2024-01-10", p.Documents.UpdateDate)
	require.Equal(t, "2024-01-01", p.Source.QueryStart)
	require.Equal(t, "2024-01-31", p.Source.QueryEnd)
}

func TestAggregatorNewerRevisionWins(t *testing.T) {
	agg := newAggregator()

	older := entities.IyakuProduct{
		GenericName:  "アセトアミノフェン",
		ProductName:  "カロナール錠200",
		Manufacturer: "あゆみ製薬",
		Documents:    entities.DocumentInfo{UpdateDate: "2023-05-01"},
	}
	newer := older
	newer.Documents.UpdateDate = "2024-02-01"

	agg.add(older)
	agg.add(newer)
	require.Len(t, agg.items, 1)
	require.Equal(t, "2024-02-01", agg.items[0].Documents.UpdateDate)

	// An older sighting never downgrades the kept entry.
	agg.add(older)
	require.Equal(t, "2024-02-01", agg.items[0].Documents.UpdateDate)
}

// Repeat sightings of a tuple across partitions must not inflate the
// extraction counters: entries are counted only when the aggregator keeps
// the row.
func TestAggregatorCountsEntriesAfterDedup(t *testing.T) {
	row := map[string]string{
		colGenericName:  "テルミサルタン・アムロジピンベシル酸塩",
		colProductName:  "ミカムロ配合錠ＡＰ",
		colManufacturer: "日本ベーリンガーインゲルハイム",
		colDocuments:    "PDF(2024年01月10日)",
	}
	partition := newPartition(day("2024-01-01"), day("2024-01-31"), 10, false)
	noValidate := func(*entities.IyakuProduct) error { return nil }

	counter := metrics.ExtractionEntriesTotal.WithLabelValues(entities.OriginCandidate)
	before := testutil.ToFloat64(counter)

	agg := newAggregator()
	agg.addRows([]map[string]string{row, row, row}, partition, noValidate)

	require.Len(t, agg.items, 1)
	require.Equal(t, 2.0, testutil.ToFloat64(counter)-before,
		"two component entries, counted once across three sightings")
}

func TestAggregatorKeepsDiscoveryOrder(t *testing.T) {
	agg := newAggregator()

	a := entities.IyakuProduct{ProductName: "製品A", Manufacturer: "社1"}
	b := entities.IyakuProduct{ProductName: "製品B", Manufacturer: "社2"}
	aNewer := a
	aNewer.Documents.UpdateDate = "2024-01-01"

	agg.add(a)
	agg.add(b)
	agg.add(aNewer)

	require.Len(t, agg.items, 2)
	require.Equal(t, "製品A", agg.items[0].ProductName)
	require.Equal(t, "2024-01-01", agg.items[0].Documents.UpdateDate)
	require.Equal(t, "製品B", agg.items[1].ProductName)
}
