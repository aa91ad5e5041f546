package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"learnhub-storefront-api/database"
	"learnhub-storefront-api/middleware"
	"learnhub-storefront-api/models"
	"learnhub-storefront-api/services/catalog"
	"learnhub-storefront-api/services/notification"
	"learnhub-storefront-api/utils"
)

type ReviewHandler struct {
	db       *database.Connection
	catalog  *catalog.Service
	notifier notification.Notifier
}

func NewReviewHandler(db *database.Connection, cat *catalog.Service, notifier notification.Notifier) *ReviewHandler {
	return &ReviewHandler{db: db, catalog: cat, notifier: notifier}
}

func (h *ReviewHandler) GetCourseReviews(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		utils.SendErrorResponse(w, http.StatusServiceUnavailable, "Reviews are temporarily unavailable")
		return
	}

	courseID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	reviews, err := h.db.GetReviewsByCourse(courseID)
	if err != nil {
		log.Printf("Error loading reviews for course %d: %v", courseID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load reviews")
		return
	}

	utils.SendJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   reviews,
	})
}

// CreateReview stores a member review. Requires auth; the username comes
// from the token, never the body.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		utils.SendErrorResponse(w, http.StatusServiceUnavailable, "Reviews are temporarily unavailable")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	var body models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if body.Rating < 1 || body.Rating > 5 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	course, ok := h.catalog.CourseByID(body.CourseID)
	if !ok {
		utils.SendErrorResponse(w, http.StatusNotFound, "Course not found")
		return
	}

	review := models.Review{
		CourseID: body.CourseID,
		Username: user.Username,
		Rating:   body.Rating,
		Comment:  body.Comment,
	}

	id, err := h.db.CreateReview(review)
	if err != nil {
		log.Printf("Error creating review: %v", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to save review")
		return
	}
	review.ID = id

	if h.notifier != nil {
		h.notifier.Notify(notification.LevelSuccess,
			fmt.Sprintf("Review posted for %s", course.Title))
	}

	utils.SendJSON(w, http.StatusCreated, models.APIResponse{
		Status:  "success",
		Message: "Review created",
		Data:    review,
	})
}
