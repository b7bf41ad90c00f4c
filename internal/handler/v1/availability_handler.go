package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citaflow/citaflow/internal/domain/appointment"
	"github.com/citaflow/citaflow/internal/service"
	"github.com/citaflow/citaflow/pkg/metrics"
)

type AvailabilityHandler struct {
	svc       *service.AvailabilityService
	collector *metrics.Collector
}

func NewAvailabilityHandler(svc *service.AvailabilityService, collector *metrics.Collector) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, collector: collector}
}

type availabilityResponse struct {
	Disponibles []appointment.TimeOfDay `json:"disponibles"`
}

// Get handles GET /citas/disponibilidad/?especialidad=<string>&fecha=<YYYY-MM-DD>
func (h *AvailabilityHandler) Get(c *gin.Context) {
	especialidad := c.Query("especialidad")
	if especialidad == "" {
		respondError(c, http.StatusBadRequest, "el parametro 'especialidad' es obligatorio")
		return
	}

	rawFecha := c.Query("fecha")
	if rawFecha == "" {
		respondError(c, http.StatusBadRequest, "el parametro 'fecha' es obligatorio")
		return
	}
	fecha, err := appointment.ParseDate(rawFecha)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	slots, err := h.svc.AvailableSlots(c.Request.Context(), especialidad, fecha)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.SlotQueriesTotal.Inc()
	c.JSON(http.StatusOK, availabilityResponse{Disponibles: slots})
}
