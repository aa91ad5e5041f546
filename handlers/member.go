package handlers

import (
	"log"
	"net/http"

	"learnhub-storefront-api/database"
	"learnhub-storefront-api/middleware"
	"learnhub-storefront-api/models"
	"learnhub-storefront-api/utils"
)

const recentOrderLimit = 5

type MemberHandler struct {
	db *database.Connection
}

func NewMemberHandler(db *database.Connection) *MemberHandler {
	return &MemberHandler{db: db}
}

// Dashboard aggregates everything the member home screen shows: profile,
// enrollments, recent orders and review activity.
func (h *MemberHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		utils.SendErrorResponse(w, http.StatusServiceUnavailable, "Dashboard is temporarily unavailable")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	member, err := h.db.GetMemberByUsername(user.Username)
	if err != nil {
		log.Printf("Error loading member %s: %v", user.Username, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	if member == nil {
		utils.SendErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	}

	enrollments, err := h.db.GetEnrollments(user.Username)
	if err != nil {
		log.Printf("Error loading enrollments for %s: %v", user.Username, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	orders, err := h.db.GetRecentOrders(user.Username, recentOrderLimit)
	if err != nil {
		log.Printf("Error loading orders for %s: %v", user.Username, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	reviewCount, err := h.db.CountReviewsByMember(user.Username)
	if err != nil {
		log.Printf("Error counting reviews for %s: %v", user.Username, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	utils.SendJSON(w, http.StatusOK, models.DashboardResponse{
		User: models.AuthUser{
			Username: member.Username,
			Email:    member.Email,
			Name:     member.Name,
			IsActive: member.IsActive,
		},
		JoinedAt:     utils.FormatDate(member.JoinedAt),
		Enrollments:  enrollments,
		RecentOrders: orders,
		ReviewCount:  reviewCount,
	})
}
