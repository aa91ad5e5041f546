package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"learnhub-storefront-api/config"
	"learnhub-storefront-api/models"
	"learnhub-storefront-api/queue"
	"learnhub-storefront-api/services/cart"
)

// stubOrderQueue records enqueued jobs in place of Redis.
type stubOrderQueue struct {
	jobs []struct {
		jobType queue.JobType
		data    map[string]interface{}
	}
	err error
}

func (q *stubOrderQueue) Enqueue(ctx context.Context, jobType queue.JobType, data map[string]interface{}) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, struct {
		jobType queue.JobType
		data    map[string]interface{}
	}{jobType, data})
	return nil
}

func newCheckoutFixture(jobQueue OrderQueue) (*CartHandler, *CheckoutHandler) {
	cfg := &config.Config{}
	cfg.Session.Secret = "test-secret"
	cfg.Session.MaxAge = 3600

	store := NewSessionStore(cfg)
	manager := cart.NewManager(cart.NewMemoryStore(), nil)
	return NewCartHandler(manager, testCatalog(), store),
		NewCheckoutHandler(manager, jobQueue, store)
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("enqueues the order and clears the cart", func(t *testing.T) {
		stub := &stubOrderQueue{}
		cartHandler, checkoutHandler := newCheckoutFixture(stub)

		added := do(cartHandler.AddToCart, http.MethodPost, "/api/cart",
			models.AddToCartRequest{ProductID: 7, Quantity: 2}, nil)
		if added.Code != http.StatusCreated {
			t.Fatalf("add: %d", added.Code)
		}

		rec := do(checkoutHandler.Checkout, http.MethodPost, "/api/checkout", nil, added)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
		}

		var resp models.CheckoutResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != models.OrderStatusPending {
			t.Errorf("status = %q, want pending", resp.Status)
		}
		if resp.OrderID == "" || !strings.HasPrefix(resp.Reference, "LH-") {
			t.Errorf("order identity missing: %+v", resp)
		}

		if len(stub.jobs) != 1 {
			t.Fatalf("expected 1 enqueued job, got %d", len(stub.jobs))
		}
		job := stub.jobs[0]
		if job.jobType != queue.JobTypeProcessOrder {
			t.Errorf("job type = %s", job.jobType)
		}
		if job.data["order_id"] != resp.OrderID || job.data["total_amount"] != 20000.0 {
			t.Errorf("job payload mismatch: %+v", job.data)
		}

		itemsJSON, ok := job.data["items_json"].(string)
		if !ok {
			t.Fatalf("items_json missing: %+v", job.data)
		}
		var items []models.CartLine
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			t.Fatalf("items_json does not decode: %v", err)
		}
		if len(items) != 1 || items[0].ProductID != 7 || items[0].Quantity != 2 {
			t.Errorf("items snapshot mismatch: %+v", items)
		}

		after := decodeCart(t, do(cartHandler.GetCart, http.MethodGet, "/api/cart", nil, added))
		if len(after.Items) != 0 {
			t.Error("checkout must clear the cart")
		}
	})

	t.Run("empty cart gets 400", func(t *testing.T) {
		stub := &stubOrderQueue{}
		_, checkoutHandler := newCheckoutFixture(stub)

		rec := do(checkoutHandler.Checkout, http.MethodPost, "/api/checkout", nil, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if len(stub.jobs) != 0 {
			t.Error("nothing should be enqueued for an empty cart")
		}
	})

	t.Run("no queue gets 503", func(t *testing.T) {
		_, checkoutHandler := newCheckoutFixture(nil)

		rec := do(checkoutHandler.Checkout, http.MethodPost, "/api/checkout", nil, nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("enqueue failure keeps the cart", func(t *testing.T) {
		stub := &stubOrderQueue{err: errors.New("redis down")}
		cartHandler, checkoutHandler := newCheckoutFixture(stub)

		added := do(cartHandler.AddToCart, http.MethodPost, "/api/cart",
			models.AddToCartRequest{ProductID: 7, Quantity: 1}, nil)

		rec := do(checkoutHandler.Checkout, http.MethodPost, "/api/checkout", nil, added)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}

		after := decodeCart(t, do(cartHandler.GetCart, http.MethodGet, "/api/cart", nil, added))
		if len(after.Items) != 1 {
			t.Error("a failed checkout must not clear the cart")
		}
	})
}
