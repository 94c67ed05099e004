package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/senyehor/yamdb/internal/domain"
	"github.com/senyehor/yamdb/internal/mailer"
	"github.com/senyehor/yamdb/internal/permission"
	"github.com/senyehor/yamdb/internal/repository"
)

type userCreateRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type userUpdateRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOnly{}, permission.ActionList); !ok {
		return
	}

	users, err := s.repo.Users.List(r.Context())
	if err != nil {
		s.respondInternal(w, "list users", err)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOnly{}, permission.ActionCreate); !ok {
		return
	}

	var req userCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	params, problem := buildUserCreateParams(req)
	if problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	user, err := s.repo.Users.Create(r.Context(), params)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Username or email already taken")
			return
		}
		s.respondInternal(w, "create user", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOnly{}, permission.ActionRetrieve); !ok {
		return
	}

	user, ok := s.fetchUser(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOnly{}, permission.ActionUpdate); !ok {
		return
	}

	user, ok := s.fetchUser(w, r)
	if !ok {
		return
	}

	var req userUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	patch, problem := buildProfilePatch(req)
	if problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	updated, err := s.repo.Users.UpdateProfile(r.Context(), user.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Username or email already taken")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "update user", err)
		return
	}

	if req.Role != nil {
		role, err := domain.RoleFromVerbose(strings.TrimSpace(*req.Role))
		if err != nil {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown role")
			return
		}
		updated, err = s.repo.Users.UpdateRole(r.Context(), user.ID, role)
		if err != nil {
			s.respondInternal(w, "update user role", err)
			return
		}
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(updated))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireCollection(w, r, permission.AdminOnly{}, permission.ActionDelete); !ok {
		return
	}

	username := chi.URLParam(r, "username")
	if err := s.repo.Users.Delete(r.Context(), username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondInternal(w, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if actor == nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(*actor))
}

// handleUpdateOwnProfile accepts a flat JSON object and applies only the
// fields a user may change on their own account. Any other key fails the
// whole request so a client cannot silently escalate their role.
func (s *Server) handleUpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if actor == nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Unable to read request body")
		return
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if len(fields) == 0 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "No fields to update")
		return
	}

	patch, err := buildOwnProfilePatch(fields)
	if err != nil {
		code := "BAD_REQUEST"
		if errors.Is(err, domain.ErrDisallowedField) {
			code = "DISALLOWED_FIELD"
		}
		s.respondError(w, http.StatusBadRequest, code, err.Error())
		return
	}

	updated, err := s.repo.Users.UpdateProfile(r.Context(), actor.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Username or email already taken")
			return
		}
		s.respondInternal(w, "update own profile", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(updated))
}

func (s *Server) fetchUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	username := chi.URLParam(r, "username")
	user, err := s.repo.Users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return domain.User{}, false
		}
		s.respondInternal(w, "fetch user", err)
		return domain.User{}, false
	}
	return user, true
}

func buildUserCreateParams(req userCreateRequest) (repository.UserCreateParams, string) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" {
		return repository.UserCreateParams{}, "username is required"
	}
	if !mailer.ValidAddress(email) {
		return repository.UserCreateParams{}, "a valid email is required"
	}
	if len(req.Bio) > 300 {
		return repository.UserCreateParams{}, "bio must be at most 300 characters"
	}

	role := domain.RoleUser
	if req.Role != "" {
		parsed, err := domain.RoleFromVerbose(strings.TrimSpace(req.Role))
		if err != nil {
			return repository.UserCreateParams{}, "unknown role"
		}
		role = parsed
	}
	return repository.UserCreateParams{
		Username:  username,
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Bio:       req.Bio,
		Role:      role,
	}, ""
}

func buildProfilePatch(req userUpdateRequest) (repository.ProfilePatch, string) {
	patch := repository.ProfilePatch{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		return repository.ProfilePatch{}, "username must not be empty"
	}
	if patch.Email != nil && !mailer.ValidAddress(*patch.Email) {
		return repository.ProfilePatch{}, "a valid email is required"
	}
	if patch.Bio != nil && len(*patch.Bio) > 300 {
		return repository.ProfilePatch{}, "bio must be at most 300 characters"
	}
	return patch, ""
}

// buildOwnProfilePatch maps raw JSON keys onto the fields users may edit
// themselves. The allowed set mirrors domain.AllowedProfileFields.
func buildOwnProfilePatch(fields map[string]json.RawMessage) (repository.ProfilePatch, error) {
	var patch repository.ProfilePatch
	for key, raw := range fields {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return repository.ProfilePatch{}, fmt.Errorf("field %q must be a string", key)
		}
		switch key {
		case "username":
			if strings.TrimSpace(value) == "" {
				return repository.ProfilePatch{}, fmt.Errorf("username must not be empty")
			}
			patch.Username = &value
		case "email":
			if !mailer.ValidAddress(value) {
				return repository.ProfilePatch{}, fmt.Errorf("a valid email is required")
			}
			patch.Email = &value
		case "first_name":
			patch.FirstName = &value
		case "last_name":
			patch.LastName = &value
		case "bio":
			if len(value) > 300 {
				return repository.ProfilePatch{}, fmt.Errorf("bio must be at most 300 characters")
			}
			patch.Bio = &value
		default:
			return repository.ProfilePatch{}, fmt.Errorf(
				"%w: %q; allowed fields: %s",
				domain.ErrDisallowedField, key, strings.Join(domain.AllowedProfileFields, ", "),
			)
		}
	}
	return patch, nil
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Role:      user.Role.Verbose(),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
