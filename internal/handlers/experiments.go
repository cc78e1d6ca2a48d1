package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/adventurebag/shop/internal/experiment"
)

// actionRequest is the optional body of POST /api/experiments/{id}/{action}.
type actionRequest struct {
	HypothesisID string `json:"hypothesisId"`
	Duration     string `json:"duration"`
	Market       string `json:"market"`
	Split        string `json:"split"`
}

type problemsResponse struct {
	Problems  []experiment.Problem `json:"problems"`
	Durations []string             `json:"durations"`
	Markets   []string             `json:"markets"`
	Splits    []string             `json:"splits"`
}

func (h *Handler) HandleExperimentProblems(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, problemsResponse{
		Problems:  experiment.Problems,
		Durations: experiment.Durations,
		Markets:   experiment.Markets,
		Splits:    experiment.Splits,
	})
}

func (h *Handler) HandleExperiments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sessions := h.experiments.List()
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
		})
		h.writeJSON(w, sessions)
	case http.MethodPost:
		session := h.experiments.Create()
		h.log(r).Info("Experiment session started", "session_id", session.ID)
		h.writeJSONStatus(w, http.StatusCreated, session)
	default:
		h.writeError(w, r, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleExperimentDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		session, err := h.experiments.Get(id)
		if err != nil {
			h.writeExperimentError(w, r, err)
			return
		}
		h.writeJSON(w, session)
	case http.MethodDelete:
		if _, err := h.experiments.Get(id); err != nil {
			h.writeExperimentError(w, r, err)
			return
		}
		h.experiments.Delete(id)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, r, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleExperimentAction applies one wizard transition: choose, back, run,
// reconfigure, test-another or reset.
func (h *Handler) HandleExperimentAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	action := r.PathValue("action")

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var apply func(*experiment.Session, time.Time) error
	switch action {
	case "choose":
		apply = func(s *experiment.Session, now time.Time) error { return s.Choose(req.HypothesisID, now) }
	case "back":
		apply = func(s *experiment.Session, now time.Time) error { return s.Back(now) }
	case "run":
		params := experiment.Params{Duration: req.Duration, Market: req.Market, Split: req.Split}
		apply = func(s *experiment.Session, now time.Time) error { return s.Run(params, now) }
	case "reconfigure":
		apply = func(s *experiment.Session, now time.Time) error { return s.Reconfigure(now) }
	case "test-another":
		apply = func(s *experiment.Session, now time.Time) error { return s.TestAnother(now) }
	case "reset":
		apply = func(s *experiment.Session, now time.Time) error {
			s.Reset(now)
			return nil
		}
	default:
		h.writeError(w, r, "Unknown action", http.StatusNotFound)
		return
	}

	session, err := h.experiments.Update(id, apply)
	if err != nil {
		h.writeExperimentError(w, r, err)
		return
	}

	h.log(r).Info("Experiment session updated", "session_id", id, "action", action, "stage", session.StageCode)
	h.writeJSON(w, session)
}

func (h *Handler) writeExperimentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, experiment.ErrNotFound):
		h.writeError(w, r, "Session not found", http.StatusNotFound)
	case errors.Is(err, experiment.ErrInvalidTransition):
		h.writeError(w, r, err.Error(), http.StatusConflict)
	case errors.Is(err, experiment.ErrInvalidParams), errors.Is(err, experiment.ErrUnknownHypothesis):
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
	default:
		h.writeError(w, r, err.Error(), http.StatusInternalServerError)
	}
}
