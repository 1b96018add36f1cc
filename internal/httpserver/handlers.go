package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/domain"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/service"
	"go.uber.org/zap"
)

type handler struct {
	svc     Service
	metrics MetricsFeed
	logger  *zap.Logger
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) handleMemberAdd(w http.ResponseWriter, r *http.Request) {
	var member domain.TeamMember
	if err := decodeJSON(r.Context(), r.Body, &member); err != nil {
		writeValidationError(w, err)
		return
	}
	if member.ID == "" {
		writeValidationError(w, errors.New("id is required"))
		return
	}

	if err := h.svc.AddMember(r.Context(), member); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"member": member})
}

func (h *handler) handleMemberList(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.ListMembers(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

func (h *handler) handleMemberGet(w http.ResponseWriter, r *http.Request) {
	member, err := h.svc.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": member})
}

func (h *handler) handleMemberRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleMemberWorkload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Workload int `json:"workload"`
	}
	if err := decodeJSON(r.Context(), r.Body, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	member, err := h.svc.SetMemberWorkload(r.Context(), chi.URLParam(r, "id"), req.Workload)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": member})
}

func (h *handler) handleMemberAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.AvailabilityStatus `json:"status"`
	}
	if err := decodeJSON(r.Context(), r.Body, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	member, err := h.svc.SetMemberAvailability(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": member})
}

type conflictRequest struct {
	InvolvedMembers []string            `json:"involved_members"`
	Data            domain.ConflictData `json:"data"`
}

func (h *handler) handleConflictDetect(w http.ResponseWriter, r *http.Request) {
	h.handleConflictCreate(w, r, h.svc.DetectConflict)
}

func (h *handler) handleConflictPriority(w http.ResponseWriter, r *http.Request) {
	h.handleConflictCreate(w, r, h.svc.ReportPriorityConflict)
}

func (h *handler) handleConflictCreate(
	w http.ResponseWriter,
	r *http.Request,
	create func(context.Context, []string, domain.ConflictData) (domain.ConflictResolution, error),
) {
	var req conflictRequest
	if err := decodeJSON(r.Context(), r.Body, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	conflict, err := create(r.Context(), req.InvolvedMembers, req.Data)
	if errors.Is(err, service.ErrConflictDiscarded) {
		// Below the severity threshold: a valid outcome with no record.
		writeJSON(w, http.StatusOK, map[string]any{"recorded": false})
		return
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"recorded": true, "conflict": conflict})
}

func (h *handler) handleConflictList(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.svc.ListConflicts(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conflicts": conflicts})
}

func (h *handler) handleConflictGet(w http.ResponseWriter, r *http.Request) {
	conflict, err := h.svc.GetConflict(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conflict": conflict})
}

func (h *handler) handleConflictTransition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.ConflictStatus `json:"status"`
	}
	if err := decodeJSON(r.Context(), r.Body, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	conflict, err := h.svc.TransitionConflict(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conflict": conflict})
}

func (h *handler) handleReviewAssign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChangeID string   `json:"change_id"`
		Author   string   `json:"author"`
		Paths    []string `json:"paths"`
		Priority string   `json:"priority"`
	}
	if err := decodeJSON(r.Context(), r.Body, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if req.ChangeID == "" || req.Author == "" {
		writeValidationError(w, errors.New("change_id and author are required"))
		return
	}

	assignment, err := h.svc.AssignReviewers(r.Context(), req.ChangeID, req.Author, req.Paths, req.Priority)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"assignment": assignment})
}

func (h *handler) handleReviewGet(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.svc.GetReviewAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignment": assignment})
}

func (h *handler) handleTaskCoordinate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Task           string     `json:"task"`
		RequiredSkills []string   `json:"required_skills"`
		EffortHours    float64    `json:"effort_hours"`
		Priority       string     `json:"priority"`
		Deadline       *time.Time `json:"deadline"`
		Dependencies   []string   `json:"dependencies"`
	}
	if err := decodeJSON(r.Context(), r.Body, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if req.Task == "" {
		writeValidationError(w, errors.New("task is required"))
		return
	}

	coordination, err := h.svc.CoordinateTask(r.Context(), service.TaskRequest{
		Task:           req.Task,
		RequiredSkills: req.RequiredSkills,
		EffortHours:    req.EffortHours,
		Priority:       req.Priority,
		Deadline:       req.Deadline,
		Dependencies:   req.Dependencies,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"coordination": coordination})
}

func (h *handler) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	coordination, err := h.svc.GetCoordination(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"coordination": coordination})
}

func (h *handler) handleTaskTransition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.CoordinationStatus `json:"status"`
	}
	if err := decodeJSON(r.Context(), r.Body, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	coordination, err := h.svc.TransitionCoordination(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"coordination": coordination})
}

func (h *handler) handleKnowledgeAnalyze(w http.ResponseWriter, r *http.Request) {
	gaps, err := h.svc.AnalyzeKnowledgeGaps(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gaps": gaps})
}

func (h *handler) handleTransferList(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.svc.ListTransfers(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}

func (h *handler) handleMetricsHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"history": h.metrics.History()})
}

func (h *handler) writeServiceError(w http.ResponseWriter, err error) {
	status, code := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("service error", zap.Error(err))
	}
	writeError(w, status, code, err.Error())
}

func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrConflictNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrCoordinationNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrInvalidMember):
		return http.StatusBadRequest, "INVALID_MEMBER"
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func decodeJSON(_ context.Context, body io.ReadCloser, dst any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("unexpected extra JSON input")
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
}
