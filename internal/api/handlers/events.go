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

type EventHandler struct {
	db *gorm.DB
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{db: db}
}

type CreateEventRequest struct {
	CaseID   string `json:"case_id,omitempty"`
	Title    string `json:"title"`
	Type     string `json:"type,omitempty"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at,omitempty"`
	Location string `json:"location,omitempty"`
}

func (r CreateEventRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Title == "" {
		errs["title"] = "Title is required"
	}
	if r.StartsAt == "" {
		errs["starts_at"] = "Start time is required"
	} else if _, err := time.Parse(time.RFC3339, r.StartsAt); err != nil {
		errs["starts_at"] = "Start time must be RFC3339"
	}
	if r.EndsAt != "" {
		if _, err := time.Parse(time.RFC3339, r.EndsAt); err != nil {
			errs["ends_at"] = "End time must be RFC3339"
		}
	}
	if r.CaseID != "" && !validation.IsValidUUID(r.CaseID) {
		errs["case_id"] = "Invalid case ID format"
	}
	return errs
}

// UpdateEventRequest carries a partial update. An explicit empty case_id
// detaches the event from its case.
type UpdateEventRequest struct {
	CaseID   *string `json:"case_id"`
	Title    *string `json:"title"`
	Type     *string `json:"type"`
	StartsAt *string `json:"starts_at"`
	EndsAt   *string `json:"ends_at"`
	Location *string `json:"location"`
}

func (r UpdateEventRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Title != nil && *r.Title == "" {
		errs["title"] = "Title cannot be empty"
	}
	if r.StartsAt != nil {
		if _, err := time.Parse(time.RFC3339, *r.StartsAt); err != nil {
			errs["starts_at"] = "Start time must be RFC3339"
		}
	}
	if r.EndsAt != nil && *r.EndsAt != "" {
		if _, err := time.Parse(time.RFC3339, *r.EndsAt); err != nil {
			errs["ends_at"] = "End time must be RFC3339"
		}
	}
	if r.CaseID != nil && *r.CaseID != "" && !validation.IsValidUUID(*r.CaseID) {
		errs["case_id"] = "Invalid case ID format"
	}
	return errs
}

type EventResponse struct {
	ID        string        `json:"id"`
	CaseID    *string       `json:"case_id,omitempty"`
	Title     string        `json:"title"`
	Type      string        `json:"type,omitempty"`
	StartsAt  string        `json:"starts_at"`
	EndsAt    *string       `json:"ends_at,omitempty"`
	Location  string        `json:"location,omitempty"`
	Case      *CaseResponse `json:"case,omitempty"`
	CreatedAt string        `json:"created_at"`
}

func eventToResponse(e *models.Event) EventResponse {
	resp := EventResponse{
		ID:        e.ID.String(),
		Title:     e.Title,
		Type:      e.Type,
		StartsAt:  e.StartsAt.Format(time.RFC3339),
		Location:  e.Location,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.CaseID != nil {
		s := e.CaseID.String()
		resp.CaseID = &s
	}
	if e.EndsAt != nil {
		s := e.EndsAt.Format(time.RFC3339)
		resp.EndsAt = &s
	}
	if e.Case != nil {
		kase := caseToResponse(e.Case)
		resp.Case = &kase
	}
	return resp
}

func (h *EventHandler) caseInOrg(caseID, orgID uuid.UUID) bool {
	var kase models.Case
	err := h.db.Where("id = ? AND org_id = ?", caseID, orgID).First(&kase).Error
	return err == nil
}

// List handles GET /api/events. Events come back ordered by start time
// ascending; supports free-text, upcoming, date-range and case filters.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	params := parseListParams(r)

	query := h.db.Model(&models.Event{}).Preload("Case").Where("org_id = ?", orgID)

	if q := r.URL.Query().Get("q"); q != "" {
		query = substringFilter(query, q, "title", "location")
	}
	if r.URL.Query().Get("upcoming") == "true" {
		query = query.Where("starts_at >= ?", time.Now().UTC())
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid 'from' timestamp"})
			return
		}
		query = query.Where("starts_at >= ?", t)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid 'to' timestamp"})
			return
		}
		query = query.Where("starts_at <= ?", t)
	}
	if caseID := r.URL.Query().Get("case_id"); caseID != "" {
		id, err := uuid.Parse(caseID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid case ID"})
			return
		}
		query = query.Where("case_id = ?", id)
	}

	var events []models.Event
	if err := query.
		Order("starts_at ASC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&events).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list events"})
		return
	}

	response := make([]EventResponse, len(events))
	for i := range events {
		response[i] = eventToResponse(&events[i])
	}

	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthContext(r.Context())

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	event := models.Event{
		UserID:   ac.User.ID,
		OrgID:    ac.OrgID,
		Title:    req.Title,
		Type:     req.Type,
		Location: req.Location,
	}

	event.StartsAt, _ = time.Parse(time.RFC3339, req.StartsAt)
	if req.EndsAt != "" {
		endsAt, _ := time.Parse(time.RFC3339, req.EndsAt)
		event.EndsAt = &endsAt
	}

	if req.CaseID != "" {
		caseID, _ := uuid.Parse(req.CaseID)
		if !h.caseInOrg(caseID, ac.OrgID) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Case not found in your organization"})
			return
		}
		event.CaseID = &caseID
	}

	if err := h.db.Create(&event).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create event"})
		return
	}

	if event.CaseID != nil {
		h.db.Preload("Case").First(&event, "id = ?", event.ID)
	}

	writeJSON(w, http.StatusCreated, eventToResponse(&event))
}

// Get handles GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid event ID"})
		return
	}

	var event models.Event
	if err := h.db.Preload("Case").
		Where("id = ? AND org_id = ?", eventID, orgID).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Event not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get event"})
		return
	}

	writeJSON(w, http.StatusOK, eventToResponse(&event))
}

// Update handles PUT /api/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid event ID"})
		return
	}

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	var event models.Event
	if err := h.db.Where("id = ? AND org_id = ?", eventID, orgID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Event not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get event"})
		return
	}

	if req.CaseID != nil {
		if *req.CaseID == "" {
			event.CaseID = nil
		} else {
			caseID, _ := uuid.Parse(*req.CaseID)
			if !h.caseInOrg(caseID, orgID) {
				writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Case not found in your organization"})
				return
			}
			event.CaseID = &caseID
		}
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Type != nil {
		event.Type = *req.Type
	}
	if req.StartsAt != nil {
		event.StartsAt, _ = time.Parse(time.RFC3339, *req.StartsAt)
	}
	if req.EndsAt != nil {
		if *req.EndsAt == "" {
			event.EndsAt = nil
		} else {
			endsAt, _ := time.Parse(time.RFC3339, *req.EndsAt)
			event.EndsAt = &endsAt
		}
	}
	if req.Location != nil {
		event.Location = *req.Location
	}

	if err := h.db.Save(&event).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update event"})
		return
	}

	if event.CaseID != nil {
		h.db.Preload("Case").First(&event, "id = ?", event.ID)
	}

	writeJSON(w, http.StatusOK, eventToResponse(&event))
}

// Delete handles DELETE /api/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid event ID"})
		return
	}

	result := h.db.Where("id = ? AND org_id = ?", eventID, orgID).Delete(&models.Event{})
	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete event"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Event not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Event deleted"})
}
