package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avukatajanda/ajanda/internal/api/dto"
	"github.com/avukatajanda/ajanda/internal/api/middleware"
	"github.com/avukatajanda/ajanda/internal/auth"
	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	resp, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})

	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Email already registered"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Registration failed"})
		return
	}

	writeJSON(w, http.StatusCreated, dto.TokenResponse{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	input := auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}
	if req.OrgID != "" {
		orgID, _ := uuid.Parse(req.OrgID)
		input.OrgID = &orgID
	}

	resp, err := h.authService.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Incorrect email or password"})
		case errors.Is(err, auth.ErrNoMembership):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "No organization membership"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
	})
}

// Me returns the acting user's profile, all their memberships, and the org the
// current token is scoped to.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthContext(r.Context())
	if ac == nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	memberships, err := h.authService.Memberships(r.Context(), ac.User.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load memberships"})
		return
	}

	resp := dto.MeResponse{
		User: userToDTO(ac.User),
		Role: string(ac.Role),
	}
	for _, m := range memberships {
		md := dto.MembershipDTO{
			ID:   m.ID.String(),
			Role: string(m.Role),
		}
		if m.Org != nil {
			md.Org = orgToDTO(m.Org)
			if ac.HasOrg() && m.OrgID == ac.OrgID {
				current := md.Org
				resp.CurrentOrg = &current
			}
		}
		resp.Memberships = append(resp.Memberships, md)
	}

	writeJSON(w, http.StatusOK, resp)
}

func userToDTO(u *models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func orgToDTO(o *models.Org) dto.OrgDTO {
	return dto.OrgDTO{
		ID:        o.ID.String(),
		Name:      o.Name,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
