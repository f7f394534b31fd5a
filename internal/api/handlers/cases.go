package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avukatajanda/ajanda/internal/api/dto"
	"github.com/avukatajanda/ajanda/internal/api/middleware"
	"github.com/avukatajanda/ajanda/internal/api/validation"
	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaseHandler struct {
	db *gorm.DB
}

func NewCaseHandler(db *gorm.DB) *CaseHandler {
	return &CaseHandler{db: db}
}

type CreateCaseRequest struct {
	ClientID   string `json:"client_id"`
	CaseNumber string `json:"case_number"`
	Title      string `json:"title"`
	Status     string `json:"status,omitempty"`
}

func (r CreateCaseRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.ClientID == "" {
		errs["client_id"] = "Client ID is required"
	} else if !validation.IsValidUUID(r.ClientID) {
		errs["client_id"] = "Invalid client ID format"
	}
	if r.CaseNumber == "" {
		errs["case_number"] = "Case number is required"
	}
	if r.Title == "" {
		errs["title"] = "Title is required"
	}
	if r.Status != "" && !models.ValidCaseStatus(models.CaseStatus(r.Status)) {
		errs["status"] = "Invalid case status"
	}
	return errs
}

// UpdateCaseRequest carries a partial update: absent fields stay untouched.
type UpdateCaseRequest struct {
	ClientID   *string `json:"client_id"`
	CaseNumber *string `json:"case_number"`
	Title      *string `json:"title"`
	Status     *string `json:"status"`
}

func (r UpdateCaseRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.ClientID != nil && !validation.IsValidUUID(*r.ClientID) {
		errs["client_id"] = "Invalid client ID format"
	}
	if r.CaseNumber != nil && *r.CaseNumber == "" {
		errs["case_number"] = "Case number cannot be empty"
	}
	if r.Title != nil && *r.Title == "" {
		errs["title"] = "Title cannot be empty"
	}
	if r.Status != nil && !models.ValidCaseStatus(models.CaseStatus(*r.Status)) {
		errs["status"] = "Invalid case status"
	}
	return errs
}

type CaseResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	CaseNumber string          `json:"case_number"`
	Title      string          `json:"title"`
	Status     string          `json:"status"`
	Client     *ClientResponse `json:"client,omitempty"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

func caseToResponse(c *models.Case) CaseResponse {
	resp := CaseResponse{
		ID:         c.ID.String(),
		ClientID:   c.ClientID.String(),
		CaseNumber: c.CaseNumber,
		Title:      c.Title,
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
	if c.Client != nil {
		client := clientToResponse(c.Client)
		resp.Client = &client
	}
	return resp
}

// clientInOrg checks that the referenced client exists inside the given org.
// A client in another org is indistinguishable from a missing one.
func (h *CaseHandler) clientInOrg(clientID, orgID uuid.UUID) bool {
	var client models.Client
	err := h.db.Where("id = ? AND org_id = ?", clientID, orgID).First(&client).Error
	return err == nil
}

// List handles GET /api/cases
func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	params := parseListParams(r)

	query := h.db.Model(&models.Case{}).Preload("Client").Where("org_id = ?", orgID)

	if q := r.URL.Query().Get("q"); q != "" {
		query = substringFilter(query, q, "title", "case_number")
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidCaseStatus(models.CaseStatus(status)) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid case status"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var cases []models.Case
	if err := query.
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&cases).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list cases"})
		return
	}

	response := make([]CaseResponse, len(cases))
	for i := range cases {
		response[i] = caseToResponse(&cases[i])
	}

	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /api/cases
func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthContext(r.Context())

	var req CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	clientID, _ := uuid.Parse(req.ClientID)
	if !h.clientInOrg(clientID, ac.OrgID) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Client not found in your organization"})
		return
	}

	// Case numbers are unique across the whole system, not per org.
	var existing models.Case
	if err := h.db.Where("case_number = ?", req.CaseNumber).First(&existing).Error; err == nil {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Case number already exists"})
		return
	}

	status := models.CaseStatus(req.Status)
	if req.Status == "" {
		status = models.CaseStatusActive
	}

	kase := models.Case{
		UserID:     ac.User.ID,
		OrgID:      ac.OrgID,
		ClientID:   clientID,
		CaseNumber: req.CaseNumber,
		Title:      req.Title,
		Status:     status,
	}

	if err := h.db.Create(&kase).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create case"})
		return
	}

	h.db.Preload("Client").First(&kase, "id = ?", kase.ID)

	writeJSON(w, http.StatusCreated, caseToResponse(&kase))
}

// Get handles GET /api/cases/{id}
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid case ID"})
		return
	}

	var kase models.Case
	if err := h.db.Preload("Client").
		Where("id = ? AND org_id = ?", caseID, orgID).
		First(&kase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Case not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get case"})
		return
	}

	writeJSON(w, http.StatusOK, caseToResponse(&kase))
}

// Update handles PUT /api/cases/{id}
func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid case ID"})
		return
	}

	var req UpdateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	var kase models.Case
	if err := h.db.Where("id = ? AND org_id = ?", caseID, orgID).First(&kase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Case not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get case"})
		return
	}

	if req.ClientID != nil {
		clientID, _ := uuid.Parse(*req.ClientID)
		if !h.clientInOrg(clientID, orgID) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Client not found in your organization"})
			return
		}
		kase.ClientID = clientID
	}

	if req.CaseNumber != nil && *req.CaseNumber != kase.CaseNumber {
		// The collision check excludes the case being updated.
		var existing models.Case
		if err := h.db.Where("case_number = ? AND id <> ?", *req.CaseNumber, kase.ID).
			First(&existing).Error; err == nil {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Case number already exists"})
			return
		}
		kase.CaseNumber = *req.CaseNumber
	}

	if req.Title != nil {
		kase.Title = *req.Title
	}
	if req.Status != nil {
		kase.Status = models.CaseStatus(*req.Status)
	}

	if err := h.db.Save(&kase).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update case"})
		return
	}

	h.db.Preload("Client").First(&kase, "id = ?", kase.ID)

	writeJSON(w, http.StatusOK, caseToResponse(&kase))
}

// Delete handles DELETE /api/cases/{id}
func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid case ID"})
		return
	}

	result := h.db.Where("id = ? AND org_id = ?", caseID, orgID).Delete(&models.Case{})
	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete case"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Case not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Case deleted"})
}
