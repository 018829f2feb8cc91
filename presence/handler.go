package presence

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"presence-service/presence/application"
	"presence-service/presence/domain"
)

// Handler expõe os casos de uso de presença como endpoints JSON sob /api/.
type Handler struct {
	Service application.Service
	// Name é o nome reportado em GET /api/.
	Name string
	Log  zerolog.Logger
}

// Routes monta o roteamento. O chamador normalmente envolve o resultado com
// CORS (e, no binário, com os guards de transporte).
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/heartbeat", h.heartbeat)
	mux.HandleFunc("/api/presence", h.presence)
	mux.HandleFunc("/api/", h.index)
	return mux
}

type heartbeatRequest struct {
	SessionID string `json:"sessionId"`
	Mood      string `json:"mood,omitempty"`
}

type leaveRequest struct {
	SessionID string `json:"sessionId"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) heartbeat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req heartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.Service.Heartbeat(r.Context(), req.SessionID, req.Mood); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) presence(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		agg, err := h.Service.Aggregate(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, agg)

	case http.MethodDelete:
		var req leaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if err := h.Service.Leave(r.Context(), req.SessionID); err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	}
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":   h.Name,
		"status": "ok",
	})
}

// writeError traduz a taxonomia de erros do domínio para status HTTP.
// Detalhe de falha do armazenamento vai para o log, nunca para o cliente.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
		return
	}
	if errors.Is(err, domain.ErrRateLimited) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}
	h.Log.Error().Err(err).Msg("store operation failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
