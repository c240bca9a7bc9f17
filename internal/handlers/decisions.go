package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mwhitfield/eightball/internal/models"
	"github.com/mwhitfield/eightball/internal/request"
	"github.com/mwhitfield/eightball/internal/services/decisions"
	"github.com/mwhitfield/eightball/internal/validation"
)

// DecisionService is the service surface the decision handlers depend on
type DecisionService interface {
	Create(ctx context.Context, userID uuid.UUID, question, mode string) (*models.Decision, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int, modeFilter string) ([]*models.Decision, decisions.Pagination, error)
	DeleteOne(ctx context.Context, userID, decisionID uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

var _ DecisionService = (*decisions.Service)(nil)

// DecisionHandler handles decision and history requests
type DecisionHandler struct {
	service DecisionService
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(service DecisionService) *DecisionHandler {
	return &DecisionHandler{service: service}
}

// RegisterRoutes registers decision routes on the given router. The router
// is expected to carry the authenticated-user middleware already.
func (h *DecisionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/decisions", h.CreateDecision).Methods("POST")
	r.HandleFunc("/history", h.ListHistory).Methods("GET")
	r.HandleFunc("/history", h.ClearHistory).Methods("DELETE")
	r.HandleFunc("/history/{id}", h.DeleteDecision).Methods("DELETE")
}

// CreateDecisionRequest represents a create decision request
type CreateDecisionRequest struct {
	Question string `json:"question" validate:"required"`
	Mode     string `json:"mode,omitempty" validate:"omitempty,decision_mode"`
}

// HistoryResponse represents one page of decision history
type HistoryResponse struct {
	Decisions  []*models.Decision   `json:"decisions"`
	Pagination decisions.Pagination `json:"pagination"`
}

// CreateDecision handles POST /decisions
func (h *DecisionHandler) CreateDecision(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	decision, err := h.service.Create(r.Context(), user.ID, req.Question, req.Mode)
	if err != nil {
		h.respondCreateError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, decision)
}

// respondValidationError maps struct validation failures onto the same
// messages the service uses for its own checks.
func (h *DecisionHandler) respondValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			switch fieldError.Field() {
			case "Question":
				respondError(w, http.StatusBadRequest, "Question is required")
			case "Mode":
				respondError(w, http.StatusBadRequest, "Mode must be one of: normal, crazy, bombastic")
			default:
				respondError(w, http.StatusBadRequest, "Validation failed")
			}
			return
		}
	}
	respondError(w, http.StatusBadRequest, "Validation failed")
}

func (h *DecisionHandler) respondCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, decisions.ErrQuestionRequired):
		respondError(w, http.StatusBadRequest, "Question is required")
	case errors.Is(err, decisions.ErrInvalidMode):
		respondError(w, http.StatusBadRequest, "Mode must be one of: normal, crazy, bombastic")
	default:
		var genErr *decisions.GenerationError
		if errors.As(err, &genErr) {
			respondError(w, http.StatusInternalServerError, "Failed to generate answer")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create decision")
	}
}

// ListHistory handles GET /history. Non-numeric page and limit values fall
// back to defaults rather than failing, and an unrecognized mode value is
// ignored.
func (h *DecisionHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	limit := decisions.DefaultPageSize
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, pagination, err := h.service.List(r.Context(), user.ID, page, limit, r.URL.Query().Get("mode"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	if items == nil {
		items = []*models.Decision{}
	}

	respondJSON(w, http.StatusOK, HistoryResponse{
		Decisions:  items,
		Pagination: pagination,
	})
}

// DeleteDecision handles DELETE /history/{id}
func (h *DecisionHandler) DeleteDecision(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Decision not found")
		return
	}

	if err := h.service.DeleteOne(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, decisions.ErrDecisionNotFound):
			respondError(w, http.StatusNotFound, "Decision not found")
		case errors.Is(err, decisions.ErrNotDecisionOwner):
			respondError(w, http.StatusForbidden, "Not authorized to delete this decision")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to delete decision")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Decision deleted"})
}

// ClearHistory handles DELETE /history
func (h *DecisionHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteAll(r.Context(), user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "History cleared"})
}
