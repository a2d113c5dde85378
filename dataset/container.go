package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/interfaces"
	"github.com/giygas/pmda-datasets/logging"
)

// Compile-time check to ensure Container implements DataStore
var _ interfaces.DataStore = (*Container)(nil)

// Container holds the served datasets behind atomic values so a refresh
// can swap in a complete new snapshot with zero downtime. Readers always
// see one consistent snapshot; the updating flag only guards against
// concurrent refreshes, never against readers.
type Container struct {
	snapshot    atomic.Value // *entities.DatasetSnapshot
	otcByCode   atomic.Value // map[string]entities.OTCProduct
	lastUpdated atomic.Value // time.Time
	updating    atomic.Bool
}

// NewContainer creates a container with empty data.
func NewContainer() *Container {
	c := &Container{}
	c.snapshot.Store(&entities.DatasetSnapshot{})
	c.otcByCode.Store(make(map[string]entities.OTCProduct))
	c.lastUpdated.Store(time.Time{})
	return c
}

func (c *Container) current() *entities.DatasetSnapshot {
	if v := c.snapshot.Load(); v != nil {
		if snap, ok := v.(*entities.DatasetSnapshot); ok && snap != nil {
			return snap
		}
	}

	logging.Warn("Dataset snapshot is empty or invalid")
	return &entities.DatasetSnapshot{}
}

// OTCProducts returns the OTC product list of the current snapshot.
func (c *Container) OTCProducts() []entities.OTCProduct {
	return c.current().OTCProducts
}

// OTCProductByCode returns one OTC product by catalog code.
func (c *Container) OTCProductByCode(code string) (entities.OTCProduct, bool) {
	if v := c.otcByCode.Load(); v != nil {
		if byCode, ok := v.(map[string]entities.OTCProduct); ok {
			p, found := byCode[code]
			return p, found
		}
	}
	return entities.OTCProduct{}, false
}

// IyakuProducts returns the prescription product list of the current
// snapshot.
func (c *Container) IyakuProducts() []entities.IyakuProduct {
	return c.current().IyakuProducts
}

// OTCIngredientIndex returns the OTC reverse index.
func (c *Container) OTCIngredientIndex() map[string]*entities.IngredientIndexEntry {
	return c.current().OTCIndex
}

// IyakuIngredientIndex returns the prescription reverse index.
func (c *Container) IyakuIngredientIndex() map[string]*entities.IngredientIndexEntry {
	return c.current().IyakuIndex
}

// LastUpdated returns when a snapshot was last swapped in.
func (c *Container) LastUpdated() time.Time {
	if v := c.lastUpdated.Load(); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// IsUpdating reports whether a refresh is currently running.
func (c *Container) IsUpdating() bool {
	return c.updating.Load()
}

// Swap atomically replaces the served snapshot. Missing indexes are
// derived so handlers never see a products/index mismatch.
func (c *Container) Swap(snapshot *entities.DatasetSnapshot) {
	if snapshot == nil {
		logging.Warn("Ignoring nil snapshot swap")
		return
	}
	if snapshot.OTCIndex == nil {
		snapshot.OTCIndex = BuildOTCIndex(snapshot.OTCProducts)
	}
	if snapshot.IyakuIndex == nil {
		snapshot.IyakuIndex = BuildIyakuIndex(snapshot.IyakuProducts)
	}

	byCode := make(map[string]entities.OTCProduct, len(snapshot.OTCProducts))
	for _, p := range snapshot.OTCProducts {
		byCode[p.Code] = p
	}

	c.snapshot.Store(snapshot)
	c.otcByCode.Store(byCode)
	c.lastUpdated.Store(time.Now())

	logging.Info("Dataset snapshot swapped",
		"otc_products", len(snapshot.OTCProducts),
		"iyaku_products", len(snapshot.IyakuProducts))
}

// BeginUpdate marks a refresh as running. It returns false when another
// refresh already holds the flag.
func (c *Container) BeginUpdate() bool {
	return c.updating.CompareAndSwap(false, true)
}

// EndUpdate clears the refresh flag.
func (c *Container) EndUpdate() {
	c.updating.Store(false)
}

// LoadFromDir reads previously written dataset files into a snapshot. A
// missing file leaves its dataset empty; a present but unreadable file is
// an error. Indexes are rebuilt from the product lists rather than read
// back, keeping the files derived-only.
func LoadFromDir(dir string) (*entities.DatasetSnapshot, error) {
	snapshot := &entities.DatasetSnapshot{}

	var otc otcProductsFile
	found, err := readJSON(filepath.Join(dir, OTCProductsFile), &otc)
	if err != nil {
		return nil, err
	}
	if found {
		snapshot.OTCProducts = otc.Products
	}

	var iyaku iyakuProductsFile
	found, err = readJSON(filepath.Join(dir, IyakuProductsFile), &iyaku)
	if err != nil {
		return nil, err
	}
	if found {
		snapshot.IyakuProducts = iyaku.Products
	}

	snapshot.OTCIndex = BuildOTCIndex(snapshot.OTCProducts)
	snapshot.IyakuIndex = BuildIyakuIndex(snapshot.IyakuProducts)
	return snapshot, nil
}

func readJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.Warn("Dataset file missing, starting empty", "file", filepath.Base(path))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
