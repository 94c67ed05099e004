package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/senyehor/yamdb/internal/domain"
	"github.com/senyehor/yamdb/internal/permission"
	"github.com/senyehor/yamdb/internal/repository"
)

// Reviews are governed by AdminOrModeratorOrAuthorOrReadOnly: anyone may
// read, authenticated users may create, and only admins, moderators, or
// the author may change or remove an existing review.

type reviewCreateRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type reviewUpdateRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type reviewResponse struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Text    string `json:"text"`
	Score   int    `json:"score"`
	PubDate string `json:"pub_date"`
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionList); !ok {
		return
	}

	title, ok := s.fetchTitle(w, r)
	if !ok {
		return
	}

	reviews, err := s.repo.Reviews.ListByTitle(r.Context(), title.ID)
	if err != nil {
		s.respondInternal(w, "list reviews", err)
		return
	}

	items := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionCreate)
	if !ok {
		return
	}

	title, ok := s.fetchTitle(w, r)
	if !ok {
		return
	}

	var req reviewCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if problem := validateReviewText(req.Text); problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}
	if req.Score < domain.MinScore || req.Score > domain.MaxScore {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "score must be between 1 and 10")
		return
	}

	exists, err := s.repo.Reviews.ExistsByAuthorAndTitle(r.Context(), actor.ID, title.ID)
	if err != nil {
		s.respondInternal(w, "check existing review", err)
		return
	}
	if exists {
		s.respondError(w, http.StatusConflict, "CONFLICT", "You already reviewed this title")
		return
	}

	review, err := s.repo.Reviews.Create(r.Context(), repository.ReviewCreateParams{
		TitleID:  title.ID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "You already reviewed this title")
			return
		}
		s.respondInternal(w, "create review", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toReviewResponse(review))
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionRetrieve); !ok {
		return
	}

	review, ok := s.fetchReview(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponse(review))
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionUpdate); !ok {
		return
	}

	review, ok := s.fetchReview(w, r)
	if !ok {
		return
	}
	if !s.requireObject(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionUpdate, review.AuthorID) {
		return
	}

	var req reviewUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Text != nil {
		trimmed := strings.TrimSpace(*req.Text)
		if problem := validateReviewText(trimmed); problem != "" {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
			return
		}
		req.Text = &trimmed
	}
	if req.Score != nil && (*req.Score < domain.MinScore || *req.Score > domain.MaxScore) {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "score must be between 1 and 10")
		return
	}

	updated, err := s.repo.Reviews.Update(r.Context(), review.ID, repository.ReviewUpdateParams{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "update review", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponse(updated))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionDelete); !ok {
		return
	}

	review, ok := s.fetchReview(w, r)
	if !ok {
		return
	}
	if !s.requireObject(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionDelete, review.AuthorID) {
		return
	}

	if err := s.repo.Reviews.Delete(r.Context(), review.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "delete review", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fetchReview loads the review referenced by the route and verifies it
// belongs to the title in the route; misses read as 404.
func (s *Server) fetchReview(w http.ResponseWriter, r *http.Request) (domain.Review, bool) {
	titleID := chi.URLParam(r, "titleID")
	reviewID := chi.URLParam(r, "reviewID")
	if !validUUID(titleID) || !validUUID(reviewID) {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return domain.Review{}, false
	}

	review, err := s.repo.Reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return domain.Review{}, false
		}
		s.respondInternal(w, "fetch review", err)
		return domain.Review{}, false
	}
	if review.TitleID != titleID {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return domain.Review{}, false
	}
	return review, true
}

func validateReviewText(text string) string {
	if text == "" {
		return "text is required"
	}
	if len(text) > 300 {
		return "text must be at most 300 characters"
	}
	return ""
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:      review.ID,
		Author:  review.AuthorUsername,
		Text:    review.Text,
		Score:   review.Score,
		PubDate: review.PubDate.Format(time.RFC3339),
	}
}
