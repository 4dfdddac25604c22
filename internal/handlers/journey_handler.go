// internal/handlers/journey_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"innerpath/internal/middleware"
	"innerpath/internal/model"
	"innerpath/internal/service"
	"innerpath/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type JourneyHandler struct {
	service service.JourneyService
}

func NewJourneyHandler(s service.JourneyService) *JourneyHandler {
	return &JourneyHandler{service: s}
}

func (h *JourneyHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if templates == nil {
		templates = []*model.JourneyTemplate{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

func (h *JourneyHandler) StartJourneys(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.StartJourneysRequest
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

	journeys, err := h.service.StartJourneys(r.Context(), userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"journeys": journeys})
}

func (h *JourneyHandler) ListJourneys(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	journeys, err := h.service.ListJourneys(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if journeys == nil {
		journeys = []*model.JourneyResponse{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"journeys": journeys})
}

func (h *JourneyHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Pause)
}

func (h *JourneyHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Resume)
}

func (h *JourneyHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Abandon)
}

// transition factors the shared shape of pause/resume/abandon.
func (h *JourneyHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, journeyID uuid.UUID) (*model.JourneyResponse, error)) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	journeyID, err := uuid.Parse(chi.URLParam(r, "journey_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("VALIDATION_ERROR", "Invalid journey ID format.", "journey_id", model.ErrInvalidInput))
		return
	}

	journey, err := fn(r.Context(), userID, journeyID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, journey)
}

func (h *JourneyHandler) History(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	journeyID, err := uuid.Parse(chi.URLParam(r, "journey_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("VALIDATION_ERROR", "Invalid journey ID format.", "journey_id", model.ErrInvalidInput))
		return
	}

	history, err := h.service.History(r.Context(), userID, journeyID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, history)
}
