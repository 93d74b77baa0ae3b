package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strings"

	"rink-live-service/internal/app/games"
	"rink-live-service/internal/checkpoint"
	domaingames "rink-live-service/internal/domain/games"
	"rink-live-service/internal/logging"
	"rink-live-service/internal/store"
)

// Handler wires HTTP routes to the domain service.
type Handler struct {
	svc      *games.Service
	logger   *slog.Logger
	statusFn func() checkpoint.Status
}

// NewHandler constructs a Handler with defaults.
func NewHandler(svc *games.Service, logger *slog.Logger, statusFn func() checkpoint.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	if h.statusFn().IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := h.statusFn().LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Games handles the games collection: list by rink, or register a game.
func (h *Handler) Games(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch r.Method {
	case nethttp.MethodGet:
		h.listGames(w, r)
	case nethttp.MethodPost:
		h.registerGame(w, r)
	default:
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *Handler) listGames(w nethttp.ResponseWriter, r *nethttp.Request) {
	rinkID := r.URL.Query().Get("rink")
	if rinkID == "" {
		writeError(w, r, nethttp.StatusBadRequest, "missing rink query parameter", h.logger)
		return
	}

	list := h.svc.Games(rinkID)
	logger := loggerFromContext(r, h.logger)
	if logger != nil {
		logger.Info("served rink games", logging.FieldRinkID, rinkID, logging.FieldCount, len(list))
	}
	writeJSON(w, nethttp.StatusOK, domaingames.NewRinkResponse(rinkID, list), h.logger)
}

func (h *Handler) registerGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	var g domaingames.LiveGame
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game payload", h.logger)
		return
	}
	if g.ID == "" {
		writeError(w, r, nethttp.StatusBadRequest, "game id required", h.logger)
		return
	}

	if err := h.svc.Register(g); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	registered, ok := h.svc.GameByID(g.ID)
	if !ok {
		writeError(w, r, nethttp.StatusInternalServerError, "game registration failed", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusCreated, registered, h.logger)
}

// GameRoutes handles /games/{id} and its subresources.
func (h *Handler) GameRoutes(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, action, ok := parseGamePath(r.URL.Path)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", h.logger)
		return
	}

	switch action {
	case "":
		h.gameByID(w, r, id)
	case "events":
		h.applyStatUpdate(w, r, id)
	case "finalize":
		h.finalizeGame(w, r, id)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

func (h *Handler) gameByID(w nethttp.ResponseWriter, r *nethttp.Request, id string) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	game, ok := h.svc.GameByID(id)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, game, h.logger)
}

func (h *Handler) applyStatUpdate(w nethttp.ResponseWriter, r *nethttp.Request, id string) {
	if r.Method != nethttp.MethodPost {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var upd domaingames.StatUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid stat update payload", h.logger)
		return
	}

	updated, err := h.svc.ApplyStatUpdate(id, upd)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	logger := loggerFromContext(r, h.logger)
	if logger != nil {
		logger.Info("stat update applied",
			logging.FieldGameID, id,
			logging.FieldPlayerID, upd.PlayerID,
			logging.FieldStatType, string(upd.Type),
		)
	}
	writeJSON(w, nethttp.StatusOK, updated, h.logger)
}

func (h *Handler) finalizeGame(w nethttp.ResponseWriter, r *nethttp.Request, id string) {
	if r.Method != nethttp.MethodPost {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	final, err := h.svc.Finalize(r.Context(), id)
	if err != nil {
		if perr, ok := store.AsPersistenceError(err); ok {
			// The game is completed in memory; only the archive hand-off
			// failed. Report both so the caller can retry archiving.
			logging.Error(loggerFromContext(r, h.logger), "archive hand-off failed", perr, logging.FieldGameID, id)
			writeJSON(w, nethttp.StatusBadGateway, map[string]any{
				"error": "archive unavailable",
				"game":  final,
			}, h.logger)
			return
		}
		h.writeDomainError(w, r, err)
		return
	}

	logger := loggerFromContext(r, h.logger)
	if logger != nil {
		logger.Info("game finalized", logging.FieldGameID, id)
	}
	writeJSON(w, nethttp.StatusOK, final, h.logger)
}

func (h *Handler) writeDomainError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	switch {
	case errors.Is(err, store.ErrGameNotFound):
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
	case errors.Is(err, domaingames.ErrPlayerNotFound):
		writeError(w, r, nethttp.StatusNotFound, "player not found in game", h.logger)
	case errors.Is(err, domaingames.ErrGameCompleted):
		writeError(w, r, nethttp.StatusConflict, "game already completed", h.logger)
	case errors.Is(err, domaingames.ErrInvalidStatType):
		writeError(w, r, nethttp.StatusBadRequest, "invalid stat type", h.logger)
	default:
		writeError(w, r, nethttp.StatusInternalServerError, "internal error", h.logger)
	}
}

// parseGamePath splits /games/{id}[/{action}] into its parts.
func parseGamePath(path string) (id, action string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/games/")
	if trimmed == path || trimmed == "" {
		return "", "", false
	}
	parts := strings.SplitN(trimmed, "/", 2)
	idRaw := parts[0]
	id, err := url.PathUnescape(idRaw)
	if err != nil || id == "" || strings.ContainsAny(id, " \t") {
		return "", "", false
	}
	if len(parts) == 2 {
		action = strings.Trim(parts[1], "/")
	}
	return id, action, true
}
