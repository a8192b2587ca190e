package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/KirkDiggler/diceroom/internal/models"
	"github.com/KirkDiggler/diceroom/internal/services/messaging"
	"github.com/KirkDiggler/diceroom/internal/services/session"
)

// NickRequest is the body of create and join requests
type NickRequest struct {
	Nick string `json:"nick"`
}

// SessionResponse wraps a session document
type SessionResponse struct {
	Session *models.Session `json:"session"`
}

// SessionViewResponse is a session with its funny labels and streaks
type SessionViewResponse struct {
	Session *models.Session     `json:"session"`
	Labels  map[string]string   `json:"labels"`
	Streaks []*messaging.Streak `json:"streaks"`
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req NickRequest
	if err := decode(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	output, err := h.sessions.CreateSession(r.Context(), &session.CreateSessionInput{
		Nick: req.Nick,
	})
	if err != nil {
		h.ServiceError(w, r, err)
		return
	}

	h.JSON(w, http.StatusCreated, SessionResponse{Session: output.Session})
}

// JoinSession handles POST /sessions/{id}/players
func (h *Handler) JoinSession(w http.ResponseWriter, r *http.Request) {
	var req NickRequest
	if err := decode(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	output, err := h.sessions.JoinSession(r.Context(), &session.JoinSessionInput{
		SessionID: chi.URLParam(r, "id"),
		Nick:      req.Nick,
	})
	if err != nil {
		h.ServiceError(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, SessionResponse{Session: output.Session})
}

// GetSession handles GET /sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	output, err := h.sessions.GetSession(r.Context(), &session.GetSessionInput{
		SessionID: chi.URLParam(r, "id"),
	})
	if err != nil {
		h.ServiceError(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, h.view(r, output.Session))
}

// view decorates a session with a label per resolved roll and the streak
// of every player that has one
func (h *Handler) view(r *http.Request, s *models.Session) *SessionViewResponse {
	ctx := r.Context()

	resp := &SessionViewResponse{
		Session: s,
		Labels:  make(map[string]string),
		Streaks: []*messaging.Streak{},
	}

	for _, rl := range s.Rolls {
		if rl.Pending {
			continue
		}

		label, err := h.messaging.GetRollLabel(ctx, &messaging.GetRollLabelInput{Roll: rl})
		if err != nil {
			log.Warn().Err(err).Str("roll_id", rl.ID).Msg("failed to label roll")
			continue
		}
		resp.Labels[rl.ID] = label.Label
	}

	for _, p := range s.Players {
		streak, err := h.messaging.GetStreak(ctx, &messaging.GetStreakInput{
			Rolls: s.Rolls,
			Nick:  p.Nick,
		})
		if err != nil {
			continue
		}
		if streak.Streak.Label != "" {
			resp.Streaks = append(resp.Streaks, streak.Streak)
		}
	}

	return resp
}
