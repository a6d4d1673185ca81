package web

import (
	"net/http"
	"strconv"

	"github.com/vbonduro/lensbot/internal/service"
)

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	place := r.URL.Query().Get("place")

	hourly := false
	if v := r.URL.Query().Get("hourly"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid hourly flag")
			return
		}
		hourly = b
	}

	report, err := s.weather.Report(r.Context(), place, hourly)
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		s.logger.Error("weather report failed", "place", place, "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

type narrationResponse struct {
	Place     string `json:"place"`
	Narration string `json:"narration"`
}

func (s *Server) handleNarrateWeather(w http.ResponseWriter, r *http.Request) {
	place := r.URL.Query().Get("place")
	if place == "" {
		place = service.DefaultPlace
	}

	text, err := s.weather.Narrate(r.Context(), place)
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		s.logger.Error("weather narration failed", "place", place, "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, narrationResponse{Place: place, Narration: text})
}
