package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/zisseki/internal/domain/activitycode"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/report"
)

type saveWeekResponse struct {
	Saved int `json:"saved"`
}

type activityCodeRequest struct {
	ActivityCode string `json:"activity_code"`
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	year, week, err := yearWeek(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.svc.Events.GetWeek(r.Context(), employee(r), year, week)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleSaveWeek(w http.ResponseWriter, r *http.Request) {
	year, week, err := yearWeek(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req event.SaveWeekRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.svc.Events.SaveWeek(r.Context(), employee(r), year, week, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveWeekResponse{Saved: n})
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	year, week, err := yearWeek(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.svc.Events.GetWeek(r.Context(), employee(r), year, week)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	grid, err := report.Layout(data.Events, year, week, s.svc.Events.Location())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req event.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.svc.Events.Create(r.Context(), employee(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.svc.Events.Get(r.Context(), employee(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req event.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.ID = chi.URLParam(r, "id")
	ev, err := s.svc.Events.Update(r.Context(), employee(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Events.Delete(r.Context(), employee(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var sel activitycode.Selection
	if err := decodeJSON(r, &sel); err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.svc.Events.Classify(r.Context(), employee(r), chi.URLParam(r, "id"), sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleSetActivityCode(w http.ResponseWriter, r *http.Request) {
	var req activityCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.svc.Events.SetActivityCode(r.Context(), employee(r), chi.URLParam(r, "id"), req.ActivityCode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
