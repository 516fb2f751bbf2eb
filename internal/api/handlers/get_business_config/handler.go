package get_business_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/service/config"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/service/config/models"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgBusinessNotFound  = "бизнес не найден"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем businessId из URL
	vars := mux.Vars(r)
	businessIDStr := vars["businessId"]

	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	req := &models.GetConfigRequest{
		BusinessID: businessID,
	}

	// Опциональный serviceId для конфигурации уровня услуги
	if serviceIDStr := r.URL.Query().Get("serviceId"); serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil || serviceID <= 0 {
			h.logger.Warn("GET /businesses/{id}/config - Invalid service ID: business_id=%d, value=%s",
				businessID, serviceIDStr)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = &serviceID
	}

	result, err := h.service.GetEffective(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/config - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/config - Failed to get config: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/config - Config retrieved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
