// internal/handlers/agenda_handler.go
package handlers

import (
	"net/http"

	"innerpath/internal/middleware"
	"innerpath/internal/model"
	"innerpath/internal/service"
	"innerpath/internal/webutil"
)

type AgendaHandler struct {
	service service.AgendaService
}

func NewAgendaHandler(s service.AgendaService) *AgendaHandler {
	return &AgendaHandler{service: s}
}

func (h *AgendaHandler) GetTodayAgenda(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	entries, err := h.service.TodayAgenda(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if entries == nil {
		entries = []*model.TodayAgendaEntry{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"agenda": entries})
}
