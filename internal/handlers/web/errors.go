package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	"github.com/KirkDiggler/diceroom/internal/services/messaging"
	"github.com/KirkDiggler/diceroom/internal/services/roll"
	"github.com/KirkDiggler/diceroom/internal/services/session"
	"github.com/KirkDiggler/diceroom/internal/services/synchronizer"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Quip  string `json:"quip,omitempty"`
}

// classify maps a service error to a status code and the user-facing kind
func classify(err error) (int, messaging.ErrorType) {
	switch {
	case errors.Is(err, session.ErrMissingNick), errors.Is(err, roll.ErrMissingNick):
		return http.StatusBadRequest, messaging.ErrorTypeMissingNick
	case errors.Is(err, session.ErrMissingSessionID),
		errors.Is(err, roll.ErrMissingSessionID),
		errors.Is(err, synchronizer.ErrMissingSessionID):
		return http.StatusBadRequest, messaging.ErrorTypeMissingSession
	case errors.Is(err, roll.ErrTooManyDice), errors.Is(err, roll.ErrCommentTooLong):
		return http.StatusBadRequest, messaging.ErrorTypeInvalidRoll
	case errors.Is(err, roll.ErrNotInSession):
		return http.StatusBadRequest, messaging.ErrorTypeNotInSession
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, roll.ErrSessionNotFound),
		errors.Is(err, synchronizer.ErrSessionNotFound):
		return http.StatusNotFound, messaging.ErrorTypeSessionNotFound
	case errors.Is(err, session.ErrNicknameTaken):
		return http.StatusConflict, messaging.ErrorTypeNicknameTaken
	case errors.Is(err, sessionRepo.ErrVersionConflict), errors.Is(err, roll.ErrRollNotFound):
		return http.StatusConflict, messaging.ErrorTypeConflict
	case errors.Is(err, session.ErrCreateFailed):
		return http.StatusInternalServerError, messaging.ErrorTypeCreateFailed
	case errors.Is(err, session.ErrJoinFailed):
		return http.StatusInternalServerError, messaging.ErrorTypeJoinFailed
	case errors.Is(err, roll.ErrRollFailed):
		return http.StatusInternalServerError, messaging.ErrorTypeRollFailed
	default:
		return http.StatusInternalServerError, messaging.ErrorTypeUnknown
	}
}

// errorBody builds the user-facing error. Validation errors keep their own
// text so the client learns which rule failed.
func (h *Handler) errorBody(ctx context.Context, err error) (int, *ErrorResponse) {
	status, kind := classify(err)

	output, msgErr := h.messaging.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		ErrorType: kind,
	})
	if msgErr != nil {
		return status, &ErrorResponse{Error: http.StatusText(status)}
	}

	message := output.Message
	if kind == messaging.ErrorTypeInvalidRoll {
		message = err.Error()
	}

	return status, &ErrorResponse{
		Error: message,
		Quip:  output.Quip,
	}
}

// ServiceError writes the response for an error returned by a service
func (h *Handler) ServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := h.errorBody(r.Context(), err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	h.JSON(w, status, body)
}
