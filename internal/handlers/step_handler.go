// internal/handlers/step_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"innerpath/internal/middleware"
	"innerpath/internal/model"
	"innerpath/internal/service"
	"innerpath/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type StepHandler struct {
	service service.StepService
}

func NewStepHandler(s service.StepService) *StepHandler {
	return &StepHandler{service: s}
}

// GetStep serves one day's content, generating it on first access.
// Idempotent: repeat calls return the cached payload unchanged.
func (h *StepHandler) GetStep(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, journeyID, dayIndex, err := h.pathParams(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	step, err := h.service.GetStep(r.Context(), userID, journeyID, dayIndex)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, step)
}

func (h *StepHandler) CompleteStep(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, journeyID, dayIndex, err := h.pathParams(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	// Empty body means completion without reflection or check-in.
	var req model.CompleteStepRequest
	if r.ContentLength > 0 {
		if err := webutil.DecodeJSONBody(r, &req); err != nil {
			webutil.HandleError(w, logger, model.NewAppError("VALIDATION_ERROR", "Invalid request body.", "", model.ErrInvalidInput))
			return
		}
		if err := webutil.Validator.Struct(req); err != nil {
			var vErrs validator.ValidationErrors
			if errors.As(err, &vErrs) {
				webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(vErrs))
			} else {
				webutil.HandleError(w, logger, model.NewAppError("VALIDATION_ERROR", "Invalid request body.", "", model.ErrInvalidInput))
			}
			return
		}
	}

	result, err := h.service.CompleteStep(r.Context(), userID, journeyID, dayIndex, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, result)
}

func (h *StepHandler) pathParams(r *http.Request) (uuid.UUID, uuid.UUID, int, error) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return uuid.Nil, uuid.Nil, 0, err
	}
	journeyID, err := uuid.Parse(chi.URLParam(r, "journey_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, 0, model.NewAppError("VALIDATION_ERROR", "Invalid journey ID format.", "journey_id", model.ErrInvalidInput)
	}
	dayIndex, err := strconv.Atoi(chi.URLParam(r, "day_index"))
	if err != nil {
		return uuid.Nil, uuid.Nil, 0, model.NewAppError("VALIDATION_ERROR", "Day index must be an integer.", "day_index", model.ErrInvalidInput)
	}
	return userID, journeyID, dayIndex, nil
}
