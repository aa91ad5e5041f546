package cart

import (
	"context"
	"errors"
	"testing"

	"learnhub-storefront-api/models"
	"learnhub-storefront-api/services/notification"
)

// recordingNotifier captures every notice so tests can assert on the feedback
// a mutation produced.
type recordingNotifier struct {
	levels   []notification.Level
	messages []string
}

func (n *recordingNotifier) Notify(level notification.Level, message string) {
	n.levels = append(n.levels, level)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) last() (notification.Level, string) {
	if len(n.levels) == 0 {
		return "", ""
	}
	return n.levels[len(n.levels)-1], n.messages[len(n.messages)-1]
}

// failingStore errors on every operation, standing in for a broken Redis.
type failingStore struct{}

func (failingStore) Load(ctx context.Context, key string) (*models.CartSnapshot, error) {
	return nil, errors.New("store down")
}

func (failingStore) Save(ctx context.Context, key string, snapshot models.CartSnapshot) error {
	return errors.New("store down")
}

func (failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("store down")
}

func newTestService() (*Service, *MemoryStore, *recordingNotifier) {
	store := NewMemoryStore()
	notifier := &recordingNotifier{}
	return NewService("test-cart", store, notifier), store, notifier
}

// checkTotals recomputes the totals from the lines and compares them against
// the cached aggregates.
func checkTotals(t *testing.T, c models.Cart) {
	t.Helper()

	quantity := 0
	amount := 0.0
	for _, line := range c.Items {
		quantity += line.Quantity
		amount += line.Price * float64(line.Quantity)
	}
	if c.TotalQuantity != quantity {
		t.Errorf("TotalQuantity = %d, want %d", c.TotalQuantity, quantity)
	}
	if c.TotalAmount != amount {
		t.Errorf("TotalAmount = %.2f, want %.2f", c.TotalAmount, amount)
	}
}

func TestAddItem(t *testing.T) {
	t.Run("adds a line with the requested quantity", func(t *testing.T) {
		svc, _, notifier := newTestService()

		if err := svc.AddItem(7, "프론트엔드 스타터 번들", 10000, 2, nil, "/images/products/frontend-bundle.jpg", 5, true); err != nil {
			t.Fatalf("AddItem returned %v", err)
		}

		c := svc.Cart()
		if len(c.Items) != 1 {
			t.Fatalf("expected 1 line, got %d", len(c.Items))
		}
		if c.Items[0].Quantity != 2 {
			t.Errorf("quantity = %d, want 2", c.Items[0].Quantity)
		}
		if c.TotalQuantity != 2 || c.TotalAmount != 20000 {
			t.Errorf("totals = %d / %.0f, want 2 / 20000", c.TotalQuantity, c.TotalAmount)
		}
		if c.Items[0].ID == "" {
			t.Error("line should get a generated id")
		}

		level, _ := notifier.last()
		if level != notification.LevelWarning {
			t.Errorf("stock of 5 should trigger a low-stock warning, got %s", level)
		}
	})

	t.Run("merges repeated adds of the same selection", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 1, nil, "", 120, true); err != nil {
			t.Fatalf("first add: %v", err)
		}
		firstID := svc.Cart().Items[0].ID

		if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 3, nil, "", 120, true); err != nil {
			t.Fatalf("second add: %v", err)
		}

		c := svc.Cart()
		if len(c.Items) != 1 {
			t.Fatalf("same selection should merge into one line, got %d", len(c.Items))
		}
		if c.Items[0].Quantity != 4 {
			t.Errorf("merged quantity = %d, want 4", c.Items[0].Quantity)
		}
		if c.Items[0].ID != firstID {
			t.Error("merging must keep the original line id")
		}
		checkTotals(t, c)
	})

	t.Run("different variants get their own lines", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(8, "수강생 후드티", 39600, 1, map[string]string{"size": "M", "color": "black"}, "", 18, true); err != nil {
			t.Fatalf("add M: %v", err)
		}
		if err := svc.AddItem(8, "수강생 후드티", 39600, 1, map[string]string{"size": "L", "color": "black"}, "", 18, true); err != nil {
			t.Fatalf("add L: %v", err)
		}

		c := svc.Cart()
		if len(c.Items) != 2 {
			t.Fatalf("distinct variants should keep separate lines, got %d", len(c.Items))
		}
		checkTotals(t, c)
	})

	t.Run("same variants in a different map still merge", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(8, "수강생 후드티", 39600, 1, map[string]string{"size": "M", "color": "black"}, "", 18, true); err != nil {
			t.Fatalf("first add: %v", err)
		}
		if err := svc.AddItem(8, "수강생 후드티", 39600, 2, map[string]string{"color": "black", "size": "M"}, "", 18, true); err != nil {
			t.Fatalf("second add: %v", err)
		}

		c := svc.Cart()
		if len(c.Items) != 1 {
			t.Fatalf("identical selections should merge, got %d lines", len(c.Items))
		}
		if c.Items[0].Quantity != 3 {
			t.Errorf("merged quantity = %d, want 3", c.Items[0].Quantity)
		}
	})

	t.Run("rejects out-of-stock items and leaves the cart unchanged", func(t *testing.T) {
		svc, _, notifier := newTestService()

		err := svc.AddItem(4, "타이포그래피 포스터", 15400, 1, nil, "", 0, false)
		if !errors.Is(err, ErrOutOfStock) {
			t.Fatalf("expected ErrOutOfStock, got %v", err)
		}

		c := svc.Cart()
		if len(c.Items) != 0 || c.TotalQuantity != 0 || c.TotalAmount != 0 {
			t.Error("rejected add must not touch the cart")
		}
		level, _ := notifier.last()
		if level != notification.LevelError {
			t.Errorf("rejection should notify with level error, got %s", level)
		}
	})

	t.Run("rejects adds that would exceed stock for the merged line", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(7, "프론트엔드 스타터 번들", 10000, 2, nil, "", 5, true); err != nil {
			t.Fatalf("first add: %v", err)
		}

		err := svc.AddItem(7, "프론트엔드 스타터 번들", 10000, 4, nil, "", 5, true)
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}

		c := svc.Cart()
		if len(c.Items) != 1 || c.Items[0].Quantity != 2 {
			t.Error("rejected add must leave the existing line untouched")
		}
		if c.TotalQuantity != 2 || c.TotalAmount != 20000 {
			t.Errorf("totals changed after a rejected add: %d / %.0f", c.TotalQuantity, c.TotalAmount)
		}
	})

	t.Run("normalizes non-positive quantities to one", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(2, "알고리즘 문제풀이 노트", 12000, 0, nil, "", 75, true); err != nil {
			t.Fatalf("AddItem returned %v", err)
		}
		if got := svc.Cart().Items[0].Quantity; got != 1 {
			t.Errorf("quantity = %d, want 1", got)
		}
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("removes the line and adjusts totals", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 2, nil, "", 120, true); err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := svc.AddItem(2, "알고리즘 문제풀이 노트", 12000, 1, nil, "", 75, true); err != nil {
			t.Fatalf("add: %v", err)
		}

		svc.RemoveItem(svc.Cart().Items[0].ID)

		c := svc.Cart()
		if len(c.Items) != 1 {
			t.Fatalf("expected 1 line after removal, got %d", len(c.Items))
		}
		if c.Items[0].ProductID != 2 {
			t.Error("wrong line removed")
		}
		checkTotals(t, c)
	})

	t.Run("unknown line id is a no-op", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 2, nil, "", 120, true); err != nil {
			t.Fatalf("add: %v", err)
		}
		before := svc.Cart()

		svc.RemoveItem("no-such-line")
		svc.RemoveItem("no-such-line")

		after := svc.Cart()
		if len(after.Items) != len(before.Items) || after.TotalQuantity != before.TotalQuantity || after.TotalAmount != before.TotalAmount {
			t.Error("removing an unknown line must change nothing")
		}
	})

	t.Run("re-adding after removal creates a fresh line", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 1, nil, "", 120, true); err != nil {
			t.Fatalf("add: %v", err)
		}
		oldID := svc.Cart().Items[0].ID
		svc.RemoveItem(oldID)

		if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 1, nil, "", 120, true); err != nil {
			t.Fatalf("re-add: %v", err)
		}
		if svc.Cart().Items[0].ID == oldID {
			t.Error("a removed line must not come back with its old id")
		}
	})
}

func TestSetQuantity(t *testing.T) {
	t.Run("replaces the quantity and adjusts totals", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 2, nil, "", 120, true); err != nil {
			t.Fatalf("add: %v", err)
		}
		lineID := svc.Cart().Items[0].ID

		if err := svc.SetQuantity(lineID, 5); err != nil {
			t.Fatalf("SetQuantity returned %v", err)
		}

		c := svc.Cart()
		if c.Items[0].Quantity != 5 {
			t.Errorf("quantity = %d, want 5", c.Items[0].Quantity)
		}
		checkTotals(t, c)
	})

	t.Run("rejects quantities above the recorded stock", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(7, "프론트엔드 스타터 번들", 10000, 2, nil, "", 5, true); err != nil {
			t.Fatalf("add: %v", err)
		}
		lineID := svc.Cart().Items[0].ID

		if err := svc.SetQuantity(lineID, 6); !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		if got := svc.Cart().Items[0].Quantity; got != 2 {
			t.Errorf("rejected update changed quantity to %d", got)
		}
	})

	t.Run("zero and negative quantities are a no-op", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 2, nil, "", 120, true); err != nil {
			t.Fatalf("add: %v", err)
		}
		lineID := svc.Cart().Items[0].ID

		if err := svc.SetQuantity(lineID, 0); err != nil {
			t.Fatalf("zero quantity: %v", err)
		}
		if err := svc.SetQuantity(lineID, -3); err != nil {
			t.Fatalf("negative quantity: %v", err)
		}
		if got := svc.Cart().Items[0].Quantity; got != 2 {
			t.Errorf("quantity = %d, want 2", got)
		}
	})

	t.Run("unknown line id returns nil", func(t *testing.T) {
		svc, _, _ := newTestService()
		if err := svc.SetQuantity("missing", 3); err != nil {
			t.Fatalf("expected nil for unknown line, got %v", err)
		}
	})
}

func TestClear(t *testing.T) {
	svc, _, _ := newTestService()

	if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 2, nil, "", 120, true); err != nil {
		t.Fatalf("add: %v", err)
	}

	svc.Clear()
	svc.Clear() // idempotent

	c := svc.Cart()
	if len(c.Items) != 0 || c.TotalQuantity != 0 || c.TotalAmount != 0 {
		t.Errorf("cart not empty after Clear: %+v", c)
	}
}

func TestVisibility(t *testing.T) {
	svc, store, _ := newTestService()

	svc.SetVisibility(true)
	if !svc.Cart().IsOpen {
		t.Error("SetVisibility(true) did not open the drawer")
	}

	svc.ToggleVisibility()
	if svc.Cart().IsOpen {
		t.Error("ToggleVisibility did not close the drawer")
	}

	// the flag is session state, it must never reach the store
	if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 1, nil, "", 120, true); err != nil {
		t.Fatalf("add: %v", err)
	}
	svc.SetVisibility(true)

	snapshot, err := store.Load(context.Background(), "test-cart")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	restored := NewService("test-cart", store, nil)
	if restored.Cart().IsOpen {
		t.Error("drawer visibility leaked into the persisted snapshot")
	}
	if snapshot == nil || len(snapshot.Items) != 1 {
		t.Error("snapshot should carry the cart lines")
	}
}

func TestPersistence(t *testing.T) {
	t.Run("restores a saved cart under the same key", func(t *testing.T) {
		store := NewMemoryStore()

		svc := NewService("buyer-1", store, nil)
		if err := svc.AddItem(3, "디자이너 데스크 매트", 19800, 2, map[string]string{"size": "90x40", "color": "navy"}, "", 40, true); err != nil {
			t.Fatalf("add: %v", err)
		}

		restored := NewService("buyer-1", store, nil)
		c := restored.Cart()
		if len(c.Items) != 1 {
			t.Fatalf("expected restored cart with 1 line, got %d", len(c.Items))
		}
		if c.Items[0].VariantKey != "color=navy|size=90x40" {
			t.Errorf("variant key lost in round trip: %q", c.Items[0].VariantKey)
		}
		if c.TotalQuantity != 2 || c.TotalAmount != 39600 {
			t.Errorf("totals lost in round trip: %d / %.0f", c.TotalQuantity, c.TotalAmount)
		}
	})

	t.Run("store failures never surface to the caller", func(t *testing.T) {
		svc := NewService("buyer-2", failingStore{}, nil)

		if err := svc.AddItem(1, "개발자 키보드 스티커 세트", 8900, 1, nil, "", 120, true); err != nil {
			t.Fatalf("AddItem must succeed despite a broken store, got %v", err)
		}
		if err := svc.SetQuantity(svc.Cart().Items[0].ID, 2); err != nil {
			t.Fatalf("SetQuantity must succeed despite a broken store, got %v", err)
		}
		svc.Clear()

		if len(svc.Cart().Items) != 0 {
			t.Error("in-memory state must stay authoritative when the store is down")
		}
	})
}

func TestManager(t *testing.T) {
	store := NewMemoryStore()
	manager := NewManager(store, nil)

	a := manager.Get("cart-a")
	b := manager.Get("cart-b")
	if a == b {
		t.Fatal("different keys must get different services")
	}
	if manager.Get("cart-a") != a {
		t.Error("repeated Get for a key must return the same service")
	}

	if err := a.AddItem(1, "개발자 키보드 스티커 세트", 8900, 1, nil, "", 120, true); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(b.Cart().Items) != 0 {
		t.Error("carts must be isolated per key")
	}
}
