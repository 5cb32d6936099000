package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/rocketscienceinc/bullscows-backend/internal/apperror"
)

const qrSize = 320

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleGetRoom")

	roomID := chi.URLParam(r, "roomId")

	room, err := that.roomRepo.GetByID(r.Context(), roomID)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	if err != nil {
		log.Error("failed to get room", "roomID", roomID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, room)
}

// handleRoomQR - PNG invite code pointing at the client with the room preselected.
func (that *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleRoomQR")

	roomID := chi.URLParam(r, "roomId")

	if _, err := that.roomRepo.GetByID(r.Context(), roomID); err != nil {
		if errors.Is(err, apperror.ErrRoomNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		log.Error("failed to get room", "roomID", roomID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	png, err := qrcode.Encode(that.inviteURL(r, roomID), qrcode.Medium, qrSize)
	if err != nil {
		log.Error("failed to encode qr code", "roomID", roomID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (that *Server) inviteURL(r *http.Request, roomID string) string {
	base := strings.TrimSuffix(that.publicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}

	return base + "/?room=" + url.QueryEscape(roomID)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
