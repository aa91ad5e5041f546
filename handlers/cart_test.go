package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub-storefront-api/config"
	"learnhub-storefront-api/models"
	"learnhub-storefront-api/services/cart"
	"learnhub-storefront-api/services/catalog"
)

func testCatalog() *catalog.Service {
	svc := catalog.NewService(1)
	svc.SetCatalog(
		[]models.Course{
			{ID: 1, Title: "처음 시작하는 리액트", Category: "프로그래밍", Level: models.LevelBeginner, Price: 44000},
		},
		[]models.Product{
			{ID: 7, Name: "프론트엔드 스타터 번들", Category: "프로그래밍", Price: 10000, Stock: 5, IsInStock: true},
			{ID: 4, Name: "타이포그래피 포스터", Category: "디자인", Price: 15400, Stock: 0, IsInStock: false},
		},
	)
	return svc
}

func newCartTestHandler() *CartHandler {
	cfg := &config.Config{}
	cfg.Session.Secret = "test-secret"
	cfg.Session.MaxAge = 3600

	manager := cart.NewManager(cart.NewMemoryStore(), nil)
	return NewCartHandler(manager, testCatalog(), NewSessionStore(cfg))
}

// do runs a request through the handler, carrying the session cookie from a
// previous response so consecutive calls hit the same cart.
func do(handler http.HandlerFunc, method, target string, body interface{}, prev *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) models.Cart {
	t.Helper()
	var c models.Cart
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("failed to decode cart response: %v", err)
	}
	return c
}

func TestAddToCartHandler(t *testing.T) {
	t.Run("adds a product with server-side pricing", func(t *testing.T) {
		h := newCartTestHandler()

		rec := do(h.AddToCart, http.MethodPost, "/api/cart/items",
			models.AddToCartRequest{ProductID: 7, Quantity: 2}, nil)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		c := decodeCart(t, rec)
		if len(c.Items) != 1 || c.Items[0].Price != 10000 {
			t.Errorf("line must carry the catalog price, got %+v", c.Items)
		}
		if c.TotalQuantity != 2 || c.TotalAmount != 20000 {
			t.Errorf("totals = %d / %.0f, want 2 / 20000", c.TotalQuantity, c.TotalAmount)
		}
	})

	t.Run("rejects adds beyond stock with 409", func(t *testing.T) {
		h := newCartTestHandler()

		first := do(h.AddToCart, http.MethodPost, "/api/cart/items",
			models.AddToCartRequest{ProductID: 7, Quantity: 2}, nil)
		if first.Code != http.StatusCreated {
			t.Fatalf("first add: %d", first.Code)
		}

		second := do(h.AddToCart, http.MethodPost, "/api/cart/items",
			models.AddToCartRequest{ProductID: 7, Quantity: 4}, first)
		if second.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", second.Code)
		}

		after := decodeCart(t, do(h.GetCart, http.MethodGet, "/api/cart", nil, first))
		if after.TotalQuantity != 2 {
			t.Errorf("cart changed by a rejected add: %+v", after)
		}
	})

	t.Run("out-of-stock product gets 409", func(t *testing.T) {
		h := newCartTestHandler()
		rec := do(h.AddToCart, http.MethodPost, "/api/cart/items",
			models.AddToCartRequest{ProductID: 4, Quantity: 1}, nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("unknown product gets 404", func(t *testing.T) {
		h := newCartTestHandler()
		rec := do(h.AddToCart, http.MethodPost, "/api/cart/items",
			models.AddToCartRequest{ProductID: 999, Quantity: 1}, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("courses are purchasable too", func(t *testing.T) {
		h := newCartTestHandler()
		rec := do(h.AddToCart, http.MethodPost, "/api/cart/items",
			models.AddToCartRequest{ProductID: 1, Quantity: 1}, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		c := decodeCart(t, rec)
		if c.Items[0].Name != "처음 시작하는 리액트" || c.Items[0].Price != 44000 {
			t.Errorf("course line mismatch: %+v", c.Items[0])
		}
	})

	t.Run("malformed body gets 400", func(t *testing.T) {
		h := newCartTestHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		h.AddToCart(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestUpdateQuantityHandler(t *testing.T) {
	t.Run("zero quantity removes the line", func(t *testing.T) {
		h := newCartTestHandler()

		added := do(h.AddToCart, http.MethodPost, "/api/cart/items",
			models.AddToCartRequest{ProductID: 7, Quantity: 2}, nil)
		lineID := decodeCart(t, added).Items[0].ID

		rec := do(h.UpdateQuantity, http.MethodPut, "/api/cart/items",
			models.CartQuantityUpdate{LineID: lineID, Quantity: 0}, added)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if c := decodeCart(t, rec); len(c.Items) != 0 {
			t.Errorf("zero quantity should remove the line, got %+v", c.Items)
		}
	})

	t.Run("over-stock update gets 409 and keeps the line", func(t *testing.T) {
		h := newCartTestHandler()

		added := do(h.AddToCart, http.MethodPost, "/api/cart/items",
			models.AddToCartRequest{ProductID: 7, Quantity: 2}, nil)
		lineID := decodeCart(t, added).Items[0].ID

		rec := do(h.UpdateQuantity, http.MethodPut, "/api/cart/items",
			models.CartQuantityUpdate{LineID: lineID, Quantity: 6}, added)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}

		after := decodeCart(t, do(h.GetCart, http.MethodGet, "/api/cart", nil, added))
		if after.Items[0].Quantity != 2 {
			t.Errorf("quantity changed by rejected update: %d", after.Items[0].Quantity)
		}
	})
}

func TestCartSessionIsolation(t *testing.T) {
	h := newCartTestHandler()

	first := do(h.AddToCart, http.MethodPost, "/api/cart/items",
		models.AddToCartRequest{ProductID: 7, Quantity: 1}, nil)
	if first.Code != http.StatusCreated {
		t.Fatalf("add: %d", first.Code)
	}

	// a request without the session cookie is a different visitor
	other := decodeCart(t, do(h.GetCart, http.MethodGet, "/api/cart", nil, nil))
	if len(other.Items) != 0 {
		t.Error("a fresh session must start with an empty cart")
	}

	same := decodeCart(t, do(h.GetCart, http.MethodGet, "/api/cart", nil, first))
	if len(same.Items) != 1 {
		t.Error("the original session lost its cart")
	}
}

func TestClearCartHandler(t *testing.T) {
	h := newCartTestHandler()

	added := do(h.AddToCart, http.MethodPost, "/api/cart/items",
		models.AddToCartRequest{ProductID: 7, Quantity: 2}, nil)

	rec := do(h.ClearCart, http.MethodDelete, "/api/cart", nil, added)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if c := decodeCart(t, rec); len(c.Items) != 0 || c.TotalAmount != 0 {
		t.Errorf("cart not empty after clear: %+v", c)
	}
}

func TestVisibilityHandlers(t *testing.T) {
	h := newCartTestHandler()

	opened := do(h.SetVisibility, http.MethodPut, "/api/cart/visibility",
		models.CartVisibilityRequest{Open: true}, nil)
	if !decodeCart(t, opened).IsOpen {
		t.Error("SetVisibility(true) did not open the drawer")
	}

	toggled := do(h.ToggleVisibility, http.MethodPost, "/api/cart/visibility/toggle", nil, opened)
	if decodeCart(t, toggled).IsOpen {
		t.Error("toggle did not close the drawer")
	}
}
