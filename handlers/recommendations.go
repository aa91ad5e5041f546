package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"learnhub-storefront-api/models"
	"learnhub-storefront-api/services/catalog"
	"learnhub-storefront-api/utils"
)

type RecommendationHandler struct {
	catalog *catalog.Service
}

func NewRecommendationHandler(cat *catalog.Service) *RecommendationHandler {
	return &RecommendationHandler{catalog: cat}
}

// GetRecommendations serves the homepage strip.
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   h.catalog.Recommend(),
	})
}

// GetRelated serves the "related items" list on detail pages. Courses relate
// to courses, products to products.
func (h *RecommendationHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	anchor, ok := h.resolveAnchor(w, r)
	if !ok {
		return
	}

	var pool []models.CatalogItem
	if anchor.Kind == models.KindCourse {
		pool = h.catalog.CourseItems()
	} else {
		pool = h.catalog.ProductItems()
	}

	utils.SendJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   catalog.Related(anchor, pool),
	})
}

// GetBoughtTogether serves the "frequently bought together" strip on product
// and course pages, drawing from the whole catalog.
func (h *RecommendationHandler) GetBoughtTogether(w http.ResponseWriter, r *http.Request) {
	anchor, ok := h.resolveAnchor(w, r)
	if !ok {
		return
	}

	utils.SendJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   catalog.FrequentlyBoughtTogether(anchor, h.catalog.Items()),
	})
}

func (h *RecommendationHandler) resolveAnchor(w http.ResponseWriter, r *http.Request) (models.CatalogItem, bool) {
	vars := mux.Vars(r)

	kind := vars["kind"]
	if kind != models.KindCourse && kind != models.KindProduct {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid item kind")
		return models.CatalogItem{}, false
	}

	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid item id")
		return models.CatalogItem{}, false
	}

	anchor, ok := h.catalog.ItemByID(kind, id)
	if !ok {
		utils.SendErrorResponse(w, http.StatusNotFound, "Item not found")
		return models.CatalogItem{}, false
	}
	return anchor, true
}
