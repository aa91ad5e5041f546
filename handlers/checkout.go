package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"learnhub-storefront-api/middleware"
	"learnhub-storefront-api/models"
	"learnhub-storefront-api/queue"
	"learnhub-storefront-api/services/cart"
	"learnhub-storefront-api/utils"
)

// OrderQueue is the slice of the job queue checkout needs.
type OrderQueue interface {
	Enqueue(ctx context.Context, jobType queue.JobType, data map[string]interface{}) error
}

type CheckoutHandler struct {
	manager  *cart.Manager
	jobQueue OrderQueue
	store    *sessions.CookieStore
}

func NewCheckoutHandler(manager *cart.Manager, jobQueue OrderQueue, store *sessions.CookieStore) *CheckoutHandler {
	return &CheckoutHandler{manager: manager, jobQueue: jobQueue, store: store}
}

// Checkout snapshots the session cart, hands it to the order queue and
// clears the cart. Order persistence happens in the worker.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.jobQueue == nil {
		utils.SendErrorResponse(w, http.StatusServiceUnavailable, "Checkout is temporarily unavailable")
		return
	}

	svc := h.manager.Get(cartKey(h.store, w, r))
	cartData := svc.Cart()
	if len(cartData.Items) == 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	itemsJSON, err := json.Marshal(cartData.Items)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to snapshot cart")
		return
	}

	orderID := uuid.NewString()
	reference := utils.GenerateOrderReference()

	username := ""
	if user := middleware.GetUserFromContext(r.Context()); user != nil {
		username = user.Username
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err = h.jobQueue.Enqueue(ctx, queue.JobTypeProcessOrder, map[string]interface{}{
		"order_id":     orderID,
		"reference":    reference,
		"username":     username,
		"items_json":   string(itemsJSON),
		"total_amount": cartData.TotalAmount,
	})
	if err != nil {
		log.Printf("Failed to enqueue order %s: %v", orderID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to submit order")
		return
	}

	svc.Clear()

	utils.SendJSON(w, http.StatusAccepted, models.CheckoutResponse{
		OrderID:   orderID,
		Reference: reference,
		Status:    models.OrderStatusPending,
	})
}
