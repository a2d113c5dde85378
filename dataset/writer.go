package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/logging"
)

// Dataset file names. The index file of a dataset always names its
// products file in its metadata so the derivation stays traceable.
const (
	OTCProductsFile   = "pmda_otc_products.json"
	OTCIndexFile      = "pmda_otc_ingredient_index.json"
	IyakuProductsFile = "pmda_iyaku_products.json"
	IyakuIndexFile    = "pmda_iyaku_ingredient_index.json"
)

type otcProductsFile struct {
	Metadata entities.OTCRunMetadata `json:"metadata"`
	Products []entities.OTCProduct   `json:"products"`
}

type iyakuProductsFile struct {
	Metadata   entities.IyakuRunMetadata `json:"metadata"`
	Partitions []entities.DatePartition  `json:"partitions"`
	Products   []entities.IyakuProduct   `json:"products"`
}

type indexFile struct {
	Metadata    entities.IndexMetadata                    `json:"metadata"`
	Ingredients map[string]*entities.IngredientIndexEntry `json:"ingredients"`
}

// WriteOTCDataset writes the OTC products file and its ingredient index
// into dir, creating dir if needed. Products keep discovery order; the
// index map marshals with sorted keys.
func WriteOTCDataset(dir string, products []entities.OTCProduct, meta entities.OTCRunMetadata) error {
	index := BuildOTCIndex(products)

	if err := writeJSON(filepath.Join(dir, OTCProductsFile), otcProductsFile{
		Metadata: meta,
		Products: products,
	}); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(dir, OTCIndexFile), indexFile{
		Metadata: entities.IndexMetadata{
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
			SourceFile:      OTCProductsFile,
			IngredientCount: len(index),
		},
		Ingredients: index,
	}); err != nil {
		return err
	}

	logging.Info("OTC dataset written",
		"dir", dir, "products", len(products), "ingredients", len(index))
	return nil
}

// WriteIyakuDataset writes the prescription products file and its
// ingredient index into dir. The unique-ingredient count in the run
// metadata is filled from the derived index.
func WriteIyakuDataset(dir string, products []entities.IyakuProduct, partitions []entities.DatePartition, meta entities.IyakuRunMetadata) error {
	index := BuildIyakuIndex(products)
	meta.UniqueIngredients = len(index)

	if err := writeJSON(filepath.Join(dir, IyakuProductsFile), iyakuProductsFile{
		Metadata:   meta,
		Partitions: partitions,
		Products:   products,
	}); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(dir, IyakuIndexFile), indexFile{
		Metadata: entities.IndexMetadata{
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
			SourceFile:      IyakuProductsFile,
			IngredientCount: len(index),
		},
		Ingredients: index,
	}); err != nil {
		return err
	}

	logging.Info("Prescription dataset written",
		"dir", dir, "products", len(products), "ingredients", len(index))
	return nil
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
