package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/stretchr/testify/require"
)

func TestWriteOTCDataset(t *testing.T) {
	dir := t.TempDir()
	products := sampleOTCProducts()
	meta := entities.OTCRunMetadata{
		Source:        "テスト",
		SourceURL:     "https://example.invalid",
		FetchedAt:     "2024-01-01T00:00:00Z",
		DetailRecords: len(products),
	}

	require.NoError(t, WriteOTCDataset(dir, products, meta))

	var productsFile otcProductsFile
	readFile(t, filepath.Join(dir, OTCProductsFile), &productsFile)
	require.Len(t, productsFile.Products, 3)
	require.Equal(t, "テスト", productsFile.Metadata.Source)
	// Discovery order preserved on disk.
	require.Equal(t, "1000_01", productsFile.Products[0].Code)

	var idx indexFile
	readFile(t, filepath.Join(dir, OTCIndexFile), &idx)
	require.Equal(t, OTCProductsFile, idx.Metadata.SourceFile)
	require.Equal(t, 2, idx.Metadata.IngredientCount)
	require.Len(t, idx.Ingredients, 2)
}

func TestWriteIyakuDatasetFillsIngredientCount(t *testing.T) {
	dir := t.TempDir()
	products := []entities.IyakuProduct{{
		GenericName: "アセトアミノフェン",
		ProductName: "カロナール錠200",
		Ingredients: []entities.Ingredient{
			{Name: "アセトアミノフェン", Origin: entities.OriginCandidate},
		},
	}}
	partitions := []entities.DatePartition{{FromDate: "2024-01-01", ToDate: "2024-01-31", Count: 1}}

	require.NoError(t, WriteIyakuDataset(dir, products, partitions, entities.IyakuRunMetadata{}))

	var productsFile iyakuProductsFile
	readFile(t, filepath.Join(dir, IyakuProductsFile), &productsFile)
	require.Equal(t, 1, productsFile.Metadata.UniqueIngredients)
	require.Len(t, productsFile.Partitions, 1)
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, WriteOTCDataset(dir, nil, entities.OTCRunMetadata{}))
	_, err := os.Stat(filepath.Join(dir, OTCProductsFile))
	require.NoError(t, err)
}

func TestLoadFromDirRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteOTCDataset(dir, sampleOTCProducts(), entities.OTCRunMetadata{}))

	snapshot, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.Len(t, snapshot.OTCProducts, 3)
	require.Empty(t, snapshot.IyakuProducts, "missing file loads as empty dataset")
	require.Len(t, snapshot.OTCIndex, 2, "index rebuilt from products")
}

func TestLoadFromDirCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, OTCProductsFile), []byte("{broken"), 0o644))

	_, err := LoadFromDir(dir)
	require.Error(t, err)
}

func readFile(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}
