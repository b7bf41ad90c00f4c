package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/citaflow/citaflow/internal/domain/history"
	"github.com/citaflow/citaflow/internal/service"
)

type HistoryHandler struct {
	svc *service.HistoryService
}

func NewHistoryHandler(svc *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

type historyEntryDTO struct {
	ID        string `json:"id_historial"`
	PatientID string `json:"id_paciente"`
	Notes     string `json:"notas"`
	UpdatedAt string `json:"ultima_actualizacion"`
}

func toHistoryDTO(e *history.Entry) historyEntryDTO {
	return historyEntryDTO{
		ID:        e.ID.String(),
		PatientID: e.PatientID.String(),
		Notes:     e.Notes,
		UpdatedAt: e.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type appendHistoryRequest struct {
	PatientID string `json:"id_paciente" binding:"required"`
	Notes     string `json:"notas"`
}

// Append handles POST /citas/historial/
func (h *HistoryHandler) Append(c *gin.Context) {
	var req appendHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id_paciente must be a valid UUID")
		return
	}

	e, err := h.svc.AppendEntry(c.Request.Context(), patientID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toHistoryDTO(e))
}

// List handles GET /citas/historial/:id_paciente
func (h *HistoryHandler) List(c *gin.Context) {
	patientID, ok := parseUUIDParam(c, "id_paciente")
	if !ok {
		return
	}

	entries, err := h.svc.PatientHistory(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]historyEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryDTO(e))
	}
	c.JSON(http.StatusOK, out)
}
