package catalog

import (
	"sort"
	"strings"

	"learnhub-storefront-api/models"
)

// CategoryAll is the sentinel label that disables category filtering.
const CategoryAll = "all"

// Sort keys accepted by SortResults.
const (
	SortPopular   = "popular"
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTitle     = "title"
)

// FilterByCategory returns the items whose category equals the given label,
// keeping input order. The "all" label passes everything through.
func FilterByCategory(items []models.CatalogItem, category string) []models.CatalogItem {
	if category == "" || category == CategoryAll {
		return items
	}
	var out []models.CatalogItem
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// FilterByTextQuery matches the query case-insensitively against title,
// description, instructor and category, keeping input order.
func FilterByTextQuery(items []models.CatalogItem, query string) []models.CatalogItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	var out []models.CatalogItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query) ||
			strings.Contains(strings.ToLower(item.Instructor), query) ||
			strings.Contains(strings.ToLower(item.Category), query) {
			out = append(out, item)
		}
	}
	return out
}

// SortResults returns a sorted copy. The sort is stable so ties keep their
// catalog order; an unknown key returns the input order unchanged.
func SortResults(items []models.CatalogItem, sortKey string) []models.CatalogItem {
	out := append([]models.CatalogItem(nil), items...)

	switch sortKey {
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool {
			return popularity(out[i]) > popularity(out[j])
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price < out[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price > out[j].Price
		})
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Title < out[j].Title
		})
	}
	return out
}

// popularity is the proxy metric behind the "popular" sort: review volume
// plus enrollments.
func popularity(item models.CatalogItem) int {
	return item.ReviewCount + item.EnrollCount
}

// Paginate returns the page-th slice of size pageSize, 1-based. Callers are
// expected to clamp the page number; out-of-range pages come back empty.
func Paginate(items []models.CatalogItem, page, pageSize int) []models.CatalogItem {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is ceil(len/pageSize), with a minimum of 1 so the frontend
// always has a last page to clamp to.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
