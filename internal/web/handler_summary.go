package web

import (
	"net/http"

	"github.com/vbonduro/lensbot/internal/domain"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	combined, err := s.pipeline.SynthesizeAll(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		s.logger.Error("synthesize summaries failed", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"summary": combined})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.pipeline.Records(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		s.logger.Error("load records failed", "error", err)
		return
	}
	if records == nil {
		records = []domain.ProcessingRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	result, err := s.pipeline.ClearAll(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		s.logger.Error("clear failed", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}
