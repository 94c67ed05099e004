package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/senyehor/yamdb/internal/domain"
	"github.com/senyehor/yamdb/internal/permission"
	"github.com/senyehor/yamdb/internal/repository"
)

type titleCreateRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type titleUpdateRequest struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

type titleResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Description string             `json:"description"`
	Genre       []nameSlugResponse `json:"genre"`
	Category    nameSlugResponse   `json:"category"`
	Rating      *float64           `json:"rating"`
}

func (s *Server) handleListTitles(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionList); !ok {
		return
	}

	filters, err := buildTitleFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	titles, err := s.repo.Titles.List(r.Context(), filters)
	if err != nil {
		s.respondInternal(w, "list titles", err)
		return
	}

	items := make([]titleResponse, 0, len(titles))
	for _, title := range titles {
		items = append(items, toTitleResponse(title))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func buildTitleFilters(query url.Values) (repository.TitleListFilters, error) {
	var filters repository.TitleListFilters

	if val := strings.TrimSpace(query.Get("name")); val != "" {
		filters.Name = &val
	}
	if val := strings.TrimSpace(query.Get("year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return filters, fmt.Errorf("invalid year value")
		}
		filters.Year = &year
	}
	if val := strings.TrimSpace(query.Get("genre")); val != "" {
		filters.GenreSlug = &val
	}
	if val := strings.TrimSpace(query.Get("category")); val != "" {
		filters.CategorySlug = &val
	}
	return filters, nil
}

func (s *Server) handleCreateTitle(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionCreate); !ok {
		return
	}

	var req titleCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Category == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name and category are required")
		return
	}
	if len(req.Name) > 100 {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name must be at most 100 characters")
		return
	}
	if req.Year <= 0 || req.Year > time.Now().Year() {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "year must be a valid year")
		return
	}

	category, err := s.repo.Categories.GetBySlug(r.Context(), req.Category)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown category slug")
			return
		}
		s.respondInternal(w, "resolve category", err)
		return
	}
	genreIDs, err := s.resolveGenreSlugs(r.Context(), req.Genre)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown genre slug")
			return
		}
		s.respondInternal(w, "resolve genres", err)
		return
	}

	title, err := s.repo.Titles.Create(r.Context(), repository.TitleCreateParams{
		Name:        req.Name,
		Year:        req.Year,
		Description: strings.TrimSpace(req.Description),
		CategoryID:  category.ID,
		GenreIDs:    genreIDs,
	})
	if err != nil {
		s.respondInternal(w, "create title", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toTitleResponse(title))
}

func (s *Server) handleGetTitle(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionRetrieve); !ok {
		return
	}

	title, ok := s.fetchTitle(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, toTitleResponse(title))
}

func (s *Server) handleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionUpdate); !ok {
		return
	}

	title, ok := s.fetchTitle(w, r)
	if !ok {
		return
	}

	var req titleUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Year != nil && (*req.Year <= 0 || *req.Year > time.Now().Year()) {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "year must be a valid year")
		return
	}

	params := repository.TitleUpdateParams{
		Name:        normalizeStringPtr(req.Name),
		Year:        req.Year,
		Description: req.Description,
	}
	if req.Category != nil {
		category, err := s.repo.Categories.GetBySlug(r.Context(), *req.Category)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown category slug")
				return
			}
			s.respondInternal(w, "resolve category", err)
			return
		}
		params.CategoryID = &category.ID
	}
	if req.Genre != nil {
		genreIDs, err := s.resolveGenreSlugs(r.Context(), req.Genre)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown genre slug")
				return
			}
			s.respondInternal(w, "resolve genres", err)
			return
		}
		params.GenreIDs = genreIDs
	}

	updated, err := s.repo.Titles.Update(r.Context(), title.ID, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "update title", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toTitleResponse(updated))
}

func (s *Server) handleDeleteTitle(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOrReadOnly{}, permission.ActionDelete); !ok {
		return
	}

	title, ok := s.fetchTitle(w, r)
	if !ok {
		return
	}
	if err := s.repo.Titles.Delete(r.Context(), title.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "delete title", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fetchTitle loads the title referenced by the route, answering 404 when
// it does not exist.
func (s *Server) fetchTitle(w http.ResponseWriter, r *http.Request) (domain.Title, bool) {
	id := chi.URLParam(r, "titleID")
	if !validUUID(id) {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return domain.Title{}, false
	}
	title, err := s.repo.Titles.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return domain.Title{}, false
		}
		s.respondInternal(w, "fetch title", err)
		return domain.Title{}, false
	}
	return title, true
}

func (s *Server) resolveGenreSlugs(ctx context.Context, slugs []string) ([]string, error) {
	ids := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		genre, err := s.repo.Genres.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		ids = append(ids, genre.ID)
	}
	return ids, nil
}

func toTitleResponse(title domain.Title) titleResponse {
	genres := make([]nameSlugResponse, 0, len(title.Genres))
	for _, genre := range title.Genres {
		genres = append(genres, nameSlugResponse{Name: genre.Name, Slug: genre.Slug})
	}
	return titleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Genre:       genres,
		Category:    nameSlugResponse{Name: title.Category.Name, Slug: title.Category.Slug},
		Rating:      title.Rating,
	}
}

func normalizeStringPtr(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	val := strings.TrimSpace(*ptr)
	if val == "" {
		return nil
	}
	return &val
}
