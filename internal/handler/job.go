package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
	"github.com/campushub/campushub/internal/websocket"
)

type JobHandler struct {
	store  *store.JobStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewJobHandler(s *store.JobStore, hub *websocket.Hub, logger *slog.Logger) *JobHandler {
	return &JobHandler{store: s, hub: hub, logger: logger}
}

type jobRequest struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	JobType  string `json:"job_type"`
	Location string `json:"location"`
	Skills   string `json:"skills"`
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := store.JobFilters{
		JobType: r.URL.Query().Get("type"),
		Skills:  strings.TrimSpace(r.URL.Query().Get("skills")),
	}
	jobs, err := h.store.List(filters)
	if err != nil {
		h.logger.Error("list jobs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load jobs")
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Company) == "" {
		writeError(w, http.StatusBadRequest, "title and company are required")
		return
	}

	job, err := h.store.Create(req.Title, req.Company, req.JobType, req.Location, req.Skills, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create job", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("job", "created", job.ID, nil))
	writeJSON(w, http.StatusCreated, job)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	job, err := h.store.Update(id, req.Title, req.Company, req.JobType, req.Location, req.Skills,
		auth.UserID(r.Context()), auth.IsAdmin(r.Context()))
	if err != nil {
		h.logger.Error("update job", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update job")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("job", "updated", job.ID, nil))
	writeJSON(w, http.StatusOK, job)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	deleted, err := h.store.Delete(id, auth.UserID(r.Context()), auth.IsAdmin(r.Context()))
	if err != nil {
		h.logger.Error("delete job", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete job")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("job", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
