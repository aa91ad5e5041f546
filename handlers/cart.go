package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"

	"learnhub-storefront-api/models"
	"learnhub-storefront-api/services/cart"
	"learnhub-storefront-api/services/catalog"
	"learnhub-storefront-api/utils"
)

type CartHandler struct {
	manager *cart.Manager
	catalog *catalog.Service
	store   *sessions.CookieStore
}

func NewCartHandler(manager *cart.Manager, cat *catalog.Service, store *sessions.CookieStore) *CartHandler {
	return &CartHandler{manager: manager, catalog: cat, store: store}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	svc := h.session(w, r)
	utils.SendJSON(w, http.StatusOK, svc.Cart())
}

// AddToCart resolves the catalog item server-side so price, stock and
// availability cannot be spoofed by the client.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var body models.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Quantity < 1 {
		body.Quantity = 1
	}

	item, ok := h.lookupItem(body.ProductID)
	if !ok {
		utils.SendErrorResponse(w, http.StatusNotFound, "Product not found")
		return
	}

	svc := h.session(w, r)
	err := svc.AddItem(item.ID, item.Title, item.Price, body.Quantity,
		body.Variants, item.Image, item.Stock, item.IsInStock)
	switch err {
	case nil:
		utils.SendJSON(w, http.StatusCreated, svc.Cart())
	case cart.ErrOutOfStock:
		utils.SendErrorResponse(w, http.StatusConflict, "This product is out of stock")
	case cart.ErrInsufficientStock:
		utils.SendErrorResponse(w, http.StatusConflict, "Not enough stock for the requested quantity")
	default:
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to add item to cart")
	}
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var body models.CartQuantityUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc := h.session(w, r)

	// zero routes through removal, matching the storefront's stepper
	if body.Quantity == 0 {
		svc.RemoveItem(body.LineID)
		utils.SendJSON(w, http.StatusOK, svc.Cart())
		return
	}

	if err := svc.SetQuantity(body.LineID, body.Quantity); err == cart.ErrInsufficientStock {
		utils.SendErrorResponse(w, http.StatusConflict, "Not enough stock for the requested quantity")
		return
	}
	utils.SendJSON(w, http.StatusOK, svc.Cart())
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var body models.CartRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc := h.session(w, r)
	svc.RemoveItem(body.LineID)
	utils.SendJSON(w, http.StatusOK, svc.Cart())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	svc := h.session(w, r)
	svc.Clear()
	utils.SendJSON(w, http.StatusOK, svc.Cart())
}

func (h *CartHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var body models.CartVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc := h.session(w, r)
	svc.SetVisibility(body.Open)
	utils.SendJSON(w, http.StatusOK, svc.Cart())
}

func (h *CartHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	svc := h.session(w, r)
	svc.ToggleVisibility()
	utils.SendJSON(w, http.StatusOK, svc.Cart())
}

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) *cart.Service {
	return h.manager.Get(cartKey(h.store, w, r))
}

// lookupItem finds a purchasable catalog item by product id, products first
// so course and product ids can overlap.
func (h *CartHandler) lookupItem(id int) (models.CatalogItem, bool) {
	if item, ok := h.catalog.ItemByID(models.KindProduct, id); ok {
		return item, true
	}
	return h.catalog.ItemByID(models.KindCourse, id)
}
