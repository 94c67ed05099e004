package httpserver

import (
	"errors"
	"net/http"

	"github.com/senyehor/yamdb/internal/auth"
	"github.com/senyehor/yamdb/internal/repository"
)

type emailCodeRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Role      string `json:"role,omitempty"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// handleRequestEmailCode starts the registration flow. An authenticated
// admin providing a username instead creates the account directly,
// skipping the email round trip.
func (s *Server) handleRequestEmailCode(w http.ResponseWriter, r *http.Request) {
	var req emailCodeRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	actor := actorFrom(r.Context())
	if actor.IsAdmin() && req.Username != "" {
		s.createUserAsAdmin(w, r, req)
		return
	}

	if req.Email == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "email is required")
		return
	}
	if err := s.authSvc.RequestCode(r.Context(), req.Email); err != nil {
		if errors.Is(err, auth.ErrInvalidEmail) {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "a valid email is required")
			return
		}
		s.respondInternal(w, "request email code", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"email": req.Email})
}

func (s *Server) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Email == "" || req.Code == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "email and code are required")
		return
	}

	pair, err := s.authSvc.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailNotRegistered):
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "no code was requested for this email")
		case errors.Is(err, auth.ErrCodeMismatch):
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "code does not match")
		case errors.Is(err, auth.ErrUserNotFound):
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No account exists for this email")
		default:
			s.respondInternal(w, "verify email code", err)
		}
		return
	}
	s.respondJSON(w, http.StatusOK, pair)
}

func (s *Server) createUserAsAdmin(w http.ResponseWriter, r *http.Request, req emailCodeRequest) {
	params, problem := buildUserCreateParams(userCreateRequest{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	})
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
