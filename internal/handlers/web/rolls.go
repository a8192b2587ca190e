package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/KirkDiggler/diceroom/internal/models"
	"github.com/KirkDiggler/diceroom/internal/services/messaging"
	"github.com/KirkDiggler/diceroom/internal/services/roll"
)

// RollRequest is the body of a roll request
type RollRequest struct {
	Nick        string `json:"nick"`
	Dice        string `json:"dice"`
	CustomSides string `json:"customSides"`
	Count       int    `json:"count"`
	Comment     string `json:"comment"`
}

// RollResponse is a resolved roll with its funny label
type RollResponse struct {
	Roll  *models.Roll `json:"roll"`
	Label string       `json:"label"`
}

// RollDice handles POST /sessions/{id}/rolls. The request waits for the
// roll to resolve; a client that goes away cancels it.
func (h *Handler) RollDice(w http.ResponseWriter, r *http.Request) {
	var req RollRequest
	if err := decode(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()

	handle, err := h.rolls.RollDice(ctx, &roll.RollDiceInput{
		SessionID:   chi.URLParam(r, "id"),
		Nick:        req.Nick,
		Dice:        req.Dice,
		CustomSides: req.CustomSides,
		Count:       req.Count,
		Comment:     req.Comment,
	})
	if err != nil {
		h.ServiceError(w, r, err)
		return
	}

	resolved, err := handle.Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Debug().Str("roll_id", handle.Roll().ID).Msg("client went away, roll cancelled")
			return
		}
		h.ServiceError(w, r, err)
		return
	}

	resp := RollResponse{Roll: resolved}
	if label, err := h.messaging.GetRollLabel(ctx, &messaging.GetRollLabelInput{Roll: resolved}); err == nil {
		resp.Label = label.Label
	}

	h.JSON(w, http.StatusOK, resp)
}
