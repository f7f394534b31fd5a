package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avukatajanda/ajanda/internal/api/dto"
	"github.com/avukatajanda/ajanda/internal/api/middleware"
	"github.com/avukatajanda/ajanda/internal/api/validation"
	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

type CreateClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (r CreateClientRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Name == "" {
		errs["name"] = "Name is required"
	}
	if r.Email != "" && !validation.IsValidEmail(r.Email) {
		errs["email"] = "Invalid email format"
	}
	return errs
}

// UpdateClientRequest carries a partial update: only fields present in the
// JSON body overwrite existing values.
type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (r UpdateClientRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Name != nil && *r.Name == "" {
		errs["name"] = "Name cannot be empty"
	}
	if r.Email != nil && *r.Email != "" && !validation.IsValidEmail(*r.Email) {
		errs["email"] = "Invalid email format"
	}
	return errs
}

type ClientResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func clientToResponse(c *models.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func parseListParams(r *http.Request) dto.ListParams {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	params := dto.ListParams{Skip: skip, Limit: limit}
	params.Normalize()
	return params
}

// substringFilter applies a case-insensitive substring match over the given
// columns. Lowercasing on both sides keeps the behavior identical on postgres
// and the sqlite test database.
func substringFilter(query *gorm.DB, q string, columns ...string) *gorm.DB {
	pattern := "%" + strings.ToLower(q) + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

// List handles GET /api/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	params := parseListParams(r)

	query := h.db.Model(&models.Client{}).Where("org_id = ?", orgID)

	if q := r.URL.Query().Get("q"); q != "" {
		query = substringFilter(query, q, "name", "email", "phone")
	}

	var clients []models.Client
	if err := query.
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&clients).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list clients"})
		return
	}

	response := make([]ClientResponse, len(clients))
	for i := range clients {
		response[i] = clientToResponse(&clients[i])
	}

	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /api/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthContext(r.Context())

	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	// Ownership comes from the auth context, never from client input.
	client := models.Client{
		UserID:  ac.User.ID,
		OrgID:   ac.OrgID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	if err := h.db.Create(&client).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create client"})
		return
	}

	writeJSON(w, http.StatusCreated, clientToResponse(&client))
}

// Get handles GET /api/clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid client ID"})
		return
	}

	var client models.Client
	if err := h.db.Where("id = ? AND org_id = ?", clientID, orgID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Client not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get client"})
		return
	}

	writeJSON(w, http.StatusOK, clientToResponse(&client))
}

// Update handles PUT /api/clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid client ID"})
		return
	}

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	var client models.Client
	if err := h.db.Where("id = ? AND org_id = ?", clientID, orgID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Client not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get client"})
		return
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}

	if err := h.db.Save(&client).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update client"})
		return
	}

	writeJSON(w, http.StatusOK, clientToResponse(&client))
}

// Delete handles DELETE /api/clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid client ID"})
		return
	}

	result := h.db.Where("id = ? AND org_id = ?", clientID, orgID).Delete(&models.Client{})
	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete client"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Client not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Client deleted"})
}
