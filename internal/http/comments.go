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

type commentCreateRequest struct {
	Text string `json:"text"`
}

type commentUpdateRequest struct {
	Text *string `json:"text"`
}

type commentResponse struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Text    string `json:"text"`
	PubDate string `json:"pub_date"`
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionList); !ok {
		return
	}

	review, ok := s.fetchReview(w, r)
	if !ok {
		return
	}

	comments, err := s.repo.Comments.ListByReview(r.Context(), review.ID)
	if err != nil {
		s.respondInternal(w, "list comments", err)
		return
	}

	items := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, toCommentResponse(comment))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionCreate)
	if !ok {
		return
	}

	review, ok := s.fetchReview(w, r)
	if !ok {
		return
	}

	var req commentCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if problem := validateCommentText(req.Text); problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	comment, err := s.repo.Comments.Create(r.Context(), repository.CommentCreateParams{
		ReviewID: review.ID,
		AuthorID: actor.ID,
		Text:     req.Text,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "create comment", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionRetrieve); !ok {
		return
	}

	comment, ok := s.fetchComment(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, toCommentResponse(comment))
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionUpdate); !ok {
		return
	}

	comment, ok := s.fetchComment(w, r)
	if !ok {
		return
	}
	if !s.requireObject(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionUpdate, comment.AuthorID) {
		return
	}

	var req commentUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Text != nil {
		trimmed := strings.TrimSpace(*req.Text)
		if problem := validateCommentText(trimmed); problem != "" {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
			return
		}
		req.Text = &trimmed
	}

	updated, err := s.repo.Comments.Update(r.Context(), comment.ID, repository.CommentUpdateParams{Text: req.Text})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "update comment", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toCommentResponse(updated))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionDelete); !ok {
		return
	}

	comment, ok := s.fetchComment(w, r)
	if !ok {
		return
	}
	if !s.requireObject(w, r, permission.AdminOrModeratorOrAuthorOrReadOnly{}, permission.ActionDelete, comment.AuthorID) {
		return
	}

	if err := s.repo.Comments.Delete(r.Context(), comment.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "delete comment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fetchComment(w http.ResponseWriter, r *http.Request) (domain.Comment, bool) {
	review, ok := s.fetchReview(w, r)
	if !ok {
		return domain.Comment{}, false
	}

	commentID := chi.URLParam(r, "commentID")
	if !validUUID(commentID) {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return domain.Comment{}, false
	}

	comment, err := s.repo.Comments.GetByID(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return domain.Comment{}, false
		}
		s.respondInternal(w, "fetch comment", err)
		return domain.Comment{}, false
	}
	if comment.ReviewID != review.ID {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return domain.Comment{}, false
	}
	return comment, true
}

func validateCommentText(text string) string {
	if text == "" {
		return "text is required"
	}
	if len(text) > 255 {
		return "text must be at most 255 characters"
	}
	return ""
}

func toCommentResponse(comment domain.Comment) commentResponse {
	return commentResponse{
		ID:      comment.ID,
		Author:  comment.AuthorUsername,
		Text:    comment.Text,
		PubDate: comment.PubDate.Format(time.RFC3339),
	}
}
