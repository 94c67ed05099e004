package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/senyehor/yamdb/internal/permission"
	"github.com/senyehor/yamdb/internal/repository"
)

// Categories and genres share their payload shape and policy
// (AdminOrReadOnly): anyone may list, only admins may create or delete.
// There is no single-item retrieve for either.

type nameSlugRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type nameSlugResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (req nameSlugRequest) validate() (nameSlugRequest, string) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Name == "" || req.Slug == "" {
		return req, "name and slug are required"
	}
	if len(req.Name) > 40 {
		return req, "name must be at most 40 characters"
	}
	return req, ""
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionList); !ok {
		return
	}

	categories, err := s.repo.Categories.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.respondInternal(w, "list categories", err)
		return
	}

	items := make([]nameSlugResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, nameSlugResponse{Name: category.Name, Slug: category.Slug})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionCreate); !ok {
		return
	}

	var req nameSlugRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req, problem := req.validate()
	if problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	category, err := s.repo.Categories.Create(r.Context(), repository.NameSlugParams{Name: req.Name, Slug: req.Slug})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Category with this name or slug already exists")
			return
		}
		s.respondInternal(w, "create category", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, nameSlugResponse{Name: category.Name, Slug: category.Slug})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionDelete); !ok {
		return
	}

	if err := s.repo.Categories.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionList); !ok {
		return
	}

	genres, err := s.repo.Genres.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.respondInternal(w, "list genres", err)
		return
	}

	items := make([]nameSlugResponse, 0, len(genres))
	for _, genre := range genres {
		items = append(items, nameSlugResponse{Name: genre.Name, Slug: genre.Slug})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateGenre(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionCreate); !ok {
		return
	}

	var req nameSlugRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req, problem := req.validate()
	if problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	genre, err := s.repo.Genres.Create(r.Context(), repository.NameSlugParams{Name: req.Name, Slug: req.Slug})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Genre with this name or slug already exists")
			return
		}
		s.respondInternal(w, "create genre", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, nameSlugResponse{Name: genre.Name, Slug: genre.Slug})
}

func (s *Server) handleDeleteGenre(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionDelete); !ok {
		return
	}

	if err := s.repo.Genres.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "delete genre", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
