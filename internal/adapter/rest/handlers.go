package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/simaogato/papertrade-backend/internal/adapter/presenter"
)

const maxBodyBytes = 1 << 20

const (
	msgInvalidJSON      = "Invalid JSON body."
	msgMethodNotAllowed = "Method Not Allowed"
	msgNotFound         = "Not Found"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.status.GetPortfolioStatus(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, presenter.NewStatusResponse(snapshot))
}

// handleTrade handles POST /api/trade
func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTradeRequest(w, r)
	if !ok {
		return
	}

	result, err := s.trades.ValidateAndSimulate(req.SymbolText(), req.Quantity, req.TypeText())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, presenter.NewTradeResponse(result))
}

// handlePreview handles POST /api/trade/preview
// An infeasible order is still a successful preview
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTradeRequest(w, r)
	if !ok {
		return
	}

	preview, err := s.previews.Preview(r.Context(), req.SymbolText(), req.Quantity, req.TypeText())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, presenter.NewPreviewResponse(preview))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusMethodNotAllowed, presenter.Failure(msgMethodNotAllowed))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, presenter.Failure(msgNotFound))
}

// decodeTradeRequest reads the order body, answering 400 unless it is exactly one JSON object
func (s *Server) decodeTradeRequest(w http.ResponseWriter, r *http.Request) (presenter.TradeRequest, bool) {
	req, err := parseTradeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.log.Debug().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("Rejected undecodable body")
		s.writeJSON(w, http.StatusBadRequest, presenter.Failure(msgInvalidJSON))
		return req, false
	}

	return req, true
}

// parseTradeRequest decodes a single JSON object, keeping numbers as json.Number
func parseTradeRequest(body io.Reader) (presenter.TradeRequest, error) {
	var req presenter.TradeRequest

	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return req, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return req, errors.New("unexpected data after JSON body")
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return req, errors.New("JSON body must be an object")
	}

	obj := json.NewDecoder(bytes.NewReader(raw))
	obj.UseNumber()
	if err := obj.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// recoveryMiddleware converts handler panics into 500 responses
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.log.Error().
				Interface("panic", rec).
				Str("path", r.URL.Path).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("Handler panicked")
			s.writeJSON(w, http.StatusInternalServerError, presenter.Failure(fmt.Sprintf("Server Error: %v", rec)))
		}()

		next.ServeHTTP(w, r)
	})
}

// serverError writes a 500 for an unexpected fault
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().
		Err(err).
		Str("path", r.URL.Path).
		Str("request_id", middleware.GetReqID(r.Context())).
		Msg("Request failed")
	s.writeJSON(w, http.StatusInternalServerError, presenter.Failure("Server Error: "+err.Error()))
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
