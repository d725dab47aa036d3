package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/carddex/internal/checklist"
	"github.com/fortuna/carddex/internal/importjob"
)

// ImportJobHandler proxies API calls to the import job service.
type ImportJobHandler struct {
	service *importjob.Service
}

// NewImportJobHandler wires the REST layer to the job service. service may
// be nil when background imports are disabled.
func NewImportJobHandler(service *importjob.Service) *ImportJobHandler {
	return &ImportJobHandler{service: service}
}

type apiImportRequest struct {
	Sport         string `json:"sport"`
	SetID         int    `json:"set_id"`
	SetName       string `json:"set_name"`
	ChecklistText string `json:"checklist_text"`
	TCDBSetID     string `json:"tcdb_set_id"`
}

func (h *ImportJobHandler) unavailable(w http.ResponseWriter) bool {
	if h.service == nil {
		respondError(w, http.StatusServiceUnavailable, "Background imports are disabled", nil)
		return true
	}
	return false
}

// HandleSubmit handles POST /api/v1/imports
func (h *ImportJobHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, checklist.MaxChecklistBytes+4096)

	var req apiImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if len(req.ChecklistText) > checklist.MaxChecklistBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "Checklist too large", nil)
		return
	}

	job, err := h.service.Enqueue(r.Context(), importjob.Request{
		Sport:         req.Sport,
		SetID:         req.SetID,
		SetName:       req.SetName,
		ChecklistText: req.ChecklistText,
		TCDBSetID:     req.TCDBSetID,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to enqueue import job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job": jobPayload(job),
	})
}

// HandleStatus handles GET /api/v1/imports/status
func (h *ImportJobHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	summary, err := h.service.GetStatus(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch status", err)
		return
	}

	respondJSON(w, http.StatusOK, buildStatusPayload(summary))
}

// HandleGetJob handles GET /api/v1/imports/{jobID}
func (h *ImportJobHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	jobID := mux.Vars(r)["jobID"]
	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Job not found", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"job": jobPayload(job),
	})
}

// HandleCancel handles POST /api/v1/imports/{jobID}/cancel
func (h *ImportJobHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	jobID := mux.Vars(r)["jobID"]
	if err := h.service.Cancel(r.Context(), jobID); err != nil {
		respondError(w, http.StatusConflict, "Failed to cancel job", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Job cancelled",
		"job_id":  jobID,
	})
}

func buildStatusPayload(summary *importjob.StatusSummary) map[string]interface{} {
	response := map[string]interface{}{
		"status":  "idle",
		"message": "No active jobs",
		"history": []map[string]interface{}{},
	}

	if summary.ActiveJob != nil {
		response["status"] = summary.ActiveJob.Status
		if summary.ActiveJob.StatusMessage.Valid {
			response["message"] = summary.ActiveJob.StatusMessage.String
		}
		response["active_job"] = jobPayload(summary.ActiveJob)
	}

	history := make([]map[string]interface{}, 0, len(summary.History))
	for _, job := range summary.History {
		history = append(history, jobPayload(job))
	}

	response["history"] = history
	return response
}

// jobPayload flattens a job for API responses. The payload column is left
// out on purpose; checklist text can be half a megabyte.
func jobPayload(job *importjob.Job) map[string]interface{} {
	if job == nil {
		return nil
	}

	payload := map[string]interface{}{
		"job_id":           job.JobID,
		"job_type":         job.JobType,
		"sport":            job.Sport,
		"status":           job.Status,
		"progress_current": job.ProgressCurrent,
		"progress_total":   job.ProgressTotal,
		"created_at":       job.CreatedAt,
		"updated_at":       job.UpdatedAt,
	}

	if job.StatusMessage.Valid {
		payload["status_message"] = job.StatusMessage.String
	}
	if job.SetID.Valid {
		payload["set_id"] = job.SetID.Int32
	}
	if job.SetName.Valid {
		payload["set_name"] = job.SetName.String
	}
	if job.StartedAt.Valid {
		payload["started_at"] = job.StartedAt.Time
	}
	if job.CompletedAt.Valid {
		payload["completed_at"] = job.CompletedAt.Time
	}
	if job.LastError.Valid {
		payload["last_error"] = job.LastError.String
	}

	return payload
}
