package server

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/tripcraft/tripcraft/internal/ai"
	"github.com/tripcraft/tripcraft/internal/schedule"
	"github.com/tripcraft/tripcraft/internal/session"
	"github.com/tripcraft/tripcraft/internal/share"
	"github.com/tripcraft/tripcraft/internal/types"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondJSON(w, http.StatusOK, M{"status": "ok"})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var prefs types.Preferences
	if !decodeBody(w, r, &prefs) {
		return
	}
	if err := prefs.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := s.gen.GenerateTrip(r.Context(), &prefs)
	if err != nil {
		if errors.Is(err, ai.ErrOffline) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	if err := s.sess.Adopt(r.Context(), trip); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, trip)
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	current := ""
	if trip := s.sess.Current(); trip != nil {
		current = trip.ID
	}
	respondJSON(w, http.StatusOK, M{
		"trips":     s.sess.Trips(),
		"currentId": current,
	})
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	trip := s.sess.Find(ps.ByName("id"))
	if trip == nil {
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

func (s *Server) handleSetCurrent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.sess.SetCurrent(r.Context(), ps.ByName("id")); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.sess.Current())
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if s.sess.Find(ps.ByName("id")) == nil {
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	if err := s.sess.Delete(r.Context(), ps.ByName("id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyMutation runs m against the addressed trip and writes the updated
// trip or a status derived from the mutation error.
func (s *Server) applyMutation(w http.ResponseWriter, r *http.Request, id string, m session.Mutation) {
	if s.sess.Find(id) == nil {
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	updated, err := s.sess.ApplyTo(r.Context(), id, m)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrTripActive):
			respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, schedule.ErrDayOutOfRange), errors.Is(err, schedule.ErrStopOutOfRange):
			respondError(w, http.StatusNotFound, err.Error())
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// dayIndex converts the 1-based day number used in URLs to a slice index.
func dayIndex(ps httprouter.Params) int {
	n := 0
	for _, c := range ps.ByName("day") {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	return n - 1
}

// stopIndices resolves the :stop id parameter against a trip.
func stopIndices(trip *types.Trip, ps httprouter.Params) (int, int, bool) {
	stop, dayIdx, stopIdx := trip.FindStop(ps.ByName("stop"))
	return dayIdx, stopIdx, stop != nil
}

func (s *Server) handleDayStartTime(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		StartTime string `json:"startTime"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	day := dayIndex(ps)
	s.applyMutation(w, r, ps.ByName("id"), func(trip *types.Trip) (*types.Trip, error) {
		return schedule.SetDayStartTime(trip, day, req.StartTime)
	})
}

func (s *Server) handleStopDuration(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Duration int `json:"duration"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.applyMutation(w, r, ps.ByName("id"), func(trip *types.Trip) (*types.Trip, error) {
		dayIdx, stopIdx, ok := stopIndices(trip, ps)
		if !ok {
			return nil, schedule.ErrStopOutOfRange
		}
		return schedule.SetStopDuration(trip, dayIdx, stopIdx, req.Duration)
	})
}

func (s *Server) handleStopToggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.applyMutation(w, r, ps.ByName("id"), func(trip *types.Trip) (*types.Trip, error) {
		dayIdx, stopIdx, ok := stopIndices(trip, ps)
		if !ok {
			return nil, schedule.ErrStopOutOfRange
		}
		return schedule.ToggleStopSelection(trip, dayIdx, stopIdx)
	})
}

func (s *Server) handleStopComplete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.applyMutation(w, r, ps.ByName("id"), func(trip *types.Trip) (*types.Trip, error) {
		dayIdx, stopIdx, ok := stopIndices(trip, ps)
		if !ok {
			return nil, schedule.ErrStopOutOfRange
		}
		return schedule.ToggleStopCompletion(trip, dayIdx, stopIdx)
	})
}

func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Active bool `json:"active"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.applyMutation(w, r, ps.ByName("id"), func(trip *types.Trip) (*types.Trip, error) {
		return schedule.SetActive(trip, req.Active), nil
	})
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	trip := s.sess.Find(ps.ByName("id"))
	if trip == nil {
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	respondJSON(w, http.StatusOK, schedule.ComputeViews(trip))
}

func (s *Server) handleGeneratePacking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	trip := s.sess.Find(ps.ByName("id"))
	if trip == nil {
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	list, err := s.gen.GeneratePackingList(r.Context(), trip)
	if err != nil {
		if errors.Is(err, ai.ErrOffline) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.applyMutation(w, r, trip.ID, func(t *types.Trip) (*types.Trip, error) {
		updated := t.Clone()
		updated.PackingList = list
		return updated, nil
	})
}

func (s *Server) handlePackingToggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.applyMutation(w, r, ps.ByName("id"), func(trip *types.Trip) (*types.Trip, error) {
		return schedule.TogglePackingItem(trip, ps.ByName("item"))
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	trip := s.sess.Find(ps.ByName("id"))
	if trip == nil {
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	url, err := share.URL(s.shareBase, trip)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payload, err := share.Encode(trip)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, M{"url": url, "payload": payload})
}

func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	trip := s.sess.Find(ps.ByName("id"))
	if trip == nil {
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	png, err := share.QRPNG(s.shareBase, trip, 512)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Payload string `json:"payload"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	trip, err := s.sess.ImportShared(r.Context(), share.PayloadFromURL(req.Payload))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, trip)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query().Get("q")
	suggestions, err := s.gen.SuggestPlaces(r.Context(), q)
	if err != nil {
		if errors.Is(err, ai.ErrOffline) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	respondJSON(w, http.StatusOK, M{"suggestions": suggestions})
}
