package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/directaula/classroom-engine/internal/application/command"
	"github.com/directaula/classroom-engine/internal/domain/ledger"
	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/internal/domain/student"
	"github.com/directaula/classroom-engine/pkg/logger"
	"github.com/directaula/classroom-engine/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot returns basic service info.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "classroom-engine",
		"version": "1.0.0",
		"status":  "running",
	})
}

// handleHealth returns overall service health including backing stores.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(r.Context()); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "healthy"
		}
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(r.Context()); err != nil {
			// Cache is an optimization, not a dependency. Degraded, not down.
			checks["cache"] = "unhealthy: " + err.Error()
		} else {
			checks["cache"] = "healthy"
		}
	}

	status := http.StatusOK
	statusText := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		statusText = "unhealthy"
	}

	payload := map[string]interface{}{
		"status":         statusText,
		"checks":         checks,
		"uptime_seconds": int(s.Uptime().Seconds()),
	}
	if s.deps.Events != nil {
		payload["events"] = s.deps.Events.Snapshot()
	}

	writeJSON(w, status, payload)
}

// handleReady returns readiness status.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(r.Context()); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "Database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive returns liveness status.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUP & ROSTER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createGroupRequest struct {
	Name string `json:"name"`
	Term string `json:"term"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := s.deps.Engine.CreateGroup(r.Context(), req.Name, req.Term)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.deps.Engine.ListGroups(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")

	roster, err := s.deps.Engine.Roster(r.Context(), groupID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roster)
}

type enrollStudentRequest struct {
	Code         string `json:"code"`
	DisplayName  string `json:"display_name"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

func (s *Server) handleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")

	var req enrollStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	st, err := s.deps.Engine.EnrollStudent(r.Context(), student.NewStudentParams{
		Code:         student.EnrollmentCode(req.Code),
		GroupID:      groupID,
		DisplayName:  req.DisplayName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")
	code := trimPathValue(r, "code")

	if err := s.deps.Engine.RemoveStudent(r.Context(), groupID, student.EnrollmentCode(code)); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"removed": code,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// RUBRIC HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetRubric(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")

	cs, err := s.deps.Engine.CategorySet(r.Context(), groupID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cs)
}

type replaceRubricRequest struct {
	Categories []categoryInput `json:"categories"`
}

type categoryInput struct {
	Name          string  `json:"name"`
	WeightPercent float64 `json:"weight_percent"`
	MaxItems      int     `json:"max_items"`
}

func (s *Server) handleReplaceRubric(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")

	var req replaceRubricRequest
	if !decodeBody(w, r, &req) {
		return
	}

	categories := make([]command.CategoryInput, 0, len(req.Categories))
	for _, c := range req.Categories {
		categories = append(categories, command.CategoryInput{
			Name:          c.Name,
			WeightPercent: c.WeightPercent,
			MaxItems:      c.MaxItems,
		})
	}

	if err := s.deps.Engine.ReplaceCategorySet(r.Context(), groupID, categories); err != nil {
		s.writeDomainError(w, err)
		return
	}

	cs, err := s.deps.Engine.CategorySet(r.Context(), groupID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cs)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type recordGradeRequest struct {
	StudentCode  string  `json:"student_code"`
	CategoryName string  `json:"category_name"`
	Value        float64 `json:"value"`
	Date         string  `json:"date,omitempty"`
}

func (s *Server) handleRecordGrade(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")

	var req recordGradeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, ok := parseDateParam(w, req.Date)
	if !ok {
		return
	}

	result, err := s.deps.Engine.RecordGrade(r.Context(), groupID, req.StudentCode, req.CategoryName, req.Value, date)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type recordAttendanceRequest struct {
	StudentCode string `json:"student_code"`
	Status      string `json:"status"`
	Date        string `json:"date,omitempty"`
}

func (s *Server) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")

	var req recordAttendanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, ok := parseDateParam(w, req.Date)
	if !ok {
		return
	}

	err := s.deps.Engine.RecordAttendance(r.Context(), groupID, req.StudentCode, date, ledger.AttendanceStatus(req.Status))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"student_code": req.StudentCode,
		"date":         timeutil.FormatDate(date),
		"status":       req.Status,
	})
}

type recordAttendanceBulkRequest struct {
	Status string `json:"status"`
	Date   string `json:"date,omitempty"`
}

func (s *Server) handleRecordAttendanceBulk(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")

	var req recordAttendanceBulkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, ok := parseDateParam(w, req.Date)
	if !ok {
		return
	}

	result, err := s.deps.Engine.RecordAttendanceBulk(r.Context(), groupID, date, ledger.AttendanceStatus(req.Status))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleEvaluateGroup(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")

	result, err := s.deps.Engine.EvaluateGroup(r.Context(), groupID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEvaluateStudent(w http.ResponseWriter, r *http.Request) {
	groupID := trimPathValue(r, "id")
	code := trimPathValue(r, "code")

	result, err := s.deps.Engine.EvaluateStudent(r.Context(), groupID, code)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes the JSON request body into dest. On failure it writes
// a 400 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// parseDateParam parses an optional ISO date string. Empty means today.
// On failure it writes a 400 response and returns ok=false.
func parseDateParam(w http.ResponseWriter, raw string) (time.Time, bool) {
	if raw == "" {
		return timeutil.Today(), true
	}

	date, err := timeutil.ParseDate(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_date", "Date must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return date, true
}

// writeDomainError maps a domain error to an HTTP status and error code.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, shared.ErrInvalidState):
		writeJSONError(w, http.StatusConflict, "invalid_state", err.Error())
	case shared.IsNoData(err):
		writeJSONError(w, http.StatusUnprocessableEntity, "no_data", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		s.logger.Error("request failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
