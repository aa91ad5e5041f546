package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"learnhub-storefront-api/database"
	"learnhub-storefront-api/models"
	"learnhub-storefront-api/services/catalog"
	"learnhub-storefront-api/utils"
)

const defaultPageSize = 12

type CatalogHandler struct {
	catalog *catalog.Service
	db      *database.Connection
}

func NewCatalogHandler(cat *catalog.Service, db *database.Connection) *CatalogHandler {
	return &CatalogHandler{catalog: cat, db: db}
}

func (h *CatalogHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, h.catalog.CourseItems())
}

func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, h.catalog.ProductItems())
}

// listItems applies the shared filter/search/sort/paginate pipeline driven by
// query parameters.
func (h *CatalogHandler) listItems(w http.ResponseWriter, r *http.Request, items []models.CatalogItem) {
	q := r.URL.Query()

	items = catalog.FilterByCategory(items, q.Get("category"))
	items = catalog.FilterByTextQuery(items, q.Get("q"))
	items = catalog.SortResults(items, q.Get("sort"))

	pageSize := parsePositiveInt(q.Get("page_size"), defaultPageSize)
	totalPages := catalog.TotalPages(len(items), pageSize)
	page := parsePositiveInt(q.Get("page"), 1)
	if page > totalPages {
		page = totalPages
	}

	utils.SendJSON(w, http.StatusOK, models.PagedResponse{
		Items:      catalog.Paginate(items, page, pageSize),
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(items),
		TotalPages: totalPages,
	})
}

func (h *CatalogHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	course, ok := h.catalog.CourseByID(id)
	if !ok {
		utils.SendErrorResponse(w, http.StatusNotFound, "Course not found")
		return
	}

	payload := struct {
		models.Course
		ReviewSummary *models.ReviewSummary `json:"review_summary,omitempty"`
	}{Course: course}

	if h.db != nil {
		summary, err := h.db.GetReviewSummary(id)
		if err != nil {
			log.Printf("Error loading review summary for course %d: %v", id, err)
		} else {
			payload.ReviewSummary = &summary
		}
	}

	utils.SendJSON(w, http.StatusOK, payload)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, ok := h.catalog.ProductByID(id)
	if !ok {
		utils.SendErrorResponse(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.SendJSON(w, http.StatusOK, product)
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
