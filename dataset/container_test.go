package dataset

import (
	"sync"
	"testing"

	"github.com/giygas/pmda-datasets/entities"
)

func TestContainerEmpty(t *testing.T) {
	c := NewContainer()

	if got := c.OTCProducts(); len(got) != 0 {
		t.Errorf("expected empty products, got %d", len(got))
	}
	if _, found := c.OTCProductByCode("1000_01"); found {
		t.Error("lookup on empty container must miss")
	}
	if !c.LastUpdated().IsZero() {
		t.Error("LastUpdated must be zero before the first swap")
	}
	if c.IsUpdating() {
		t.Error("new container must not report updating")
	}
}

func TestContainerSwap(t *testing.T) {
	c := NewContainer()
	c.Swap(&entities.DatasetSnapshot{OTCProducts: sampleOTCProducts()})

	if len(c.OTCProducts()) != 3 {
		t.Fatalf("expected 3 products after swap, got %d", len(c.OTCProducts()))
	}

	p, found := c.OTCProductByCode("1000_02")
	if !found {
		t.Fatal("expected code lookup to hit after swap")
	}
	if p.ProductName != "鎮痛薬A" {
		t.Errorf("ProductName = %q", p.ProductName)
	}

	// Indexes are derived during the swap when absent.
	if len(c.OTCIngredientIndex()) != 2 {
		t.Errorf("expected derived index with 2 ingredients, got %d", len(c.OTCIngredientIndex()))
	}
	if c.LastUpdated().IsZero() {
		t.Error("LastUpdated not set by swap")
	}
}

func TestContainerBeginEndUpdate(t *testing.T) {
	c := NewContainer()

	if !c.BeginUpdate() {
		t.Fatal("first BeginUpdate must succeed")
	}
	if c.BeginUpdate() {
		t.Error("concurrent BeginUpdate must fail")
	}
	if !c.IsUpdating() {
		t.Error("IsUpdating must report true during an update")
	}

	c.EndUpdate()
	if !c.BeginUpdate() {
		t.Error("BeginUpdate must succeed again after EndUpdate")
	}
	c.EndUpdate()
}

func TestContainerConcurrentReadsDuringSwap(t *testing.T) {
	c := NewContainer()
	snapshot := &entities.DatasetSnapshot{OTCProducts: sampleOTCProducts()}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				products := c.OTCProducts()
				if len(products) != 0 && len(products) != 3 {
					t.Errorf("torn read: %d products", len(products))
					return
				}
				c.OTCProductByCode("1000_01")
				c.OTCIngredientIndex()
			}
		}()
	}

	for j := 0; j < 50; j++ {
		c.Swap(&entities.DatasetSnapshot{OTCProducts: snapshot.OTCProducts})
	}
	wg.Wait()
}
