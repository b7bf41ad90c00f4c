package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/citaflow/citaflow/internal/domain/appointment"
	"github.com/citaflow/citaflow/internal/service"
	"github.com/citaflow/citaflow/pkg/metrics"
)

type AppointmentHandler struct {
	svc       *service.SchedulingService
	collector *metrics.Collector
}

func NewAppointmentHandler(svc *service.SchedulingService, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, collector: collector}
}

// appointmentDTO keeps the legacy Spanish wire contract.
type appointmentDTO struct {
	ID           string `json:"id_cita"`
	PatientID    string `json:"id_paciente"`
	DoctorID     string `json:"id_medico"`
	Fecha        string `json:"fecha"`
	Hora         string `json:"hora"`
	Especialidad string `json:"especialidad,omitempty"`
	Estado       string `json:"estado"`
	RefCode      string `json:"refcita"`
}

func toDTO(a *appointment.Appointment) appointmentDTO {
	return appointmentDTO{
		ID:           a.ID.String(),
		PatientID:    a.PatientID.String(),
		DoctorID:     a.DoctorID.String(),
		Fecha:        a.Date.Format("2006-01-02"),
		Hora:         a.Time.String(),
		Especialidad: a.Specialty,
		Estado:       string(a.Status),
		RefCode:      a.RefCode,
	}
}

type scheduleRequest struct {
	PatientID    string `json:"id_paciente" binding:"required"`
	DoctorID     string `json:"id_medico" binding:"required"`
	Fecha        string `json:"fecha" binding:"required"`
	Hora         string `json:"hora" binding:"required"`
	Especialidad string `json:"especialidad"`
}

// Schedule handles POST /citas/agendar/
func (h *AppointmentHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd, ok := h.parseScheduleRequest(c, &req)
	if !ok {
		return
	}

	a, err := h.svc.Schedule(c.Request.Context(), cmd, c.ClientIP())
	if err != nil {
		h.collector.AppointmentsBooked.WithLabelValues(bookingOutcome(err)).Inc()
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsBooked.WithLabelValues("booked").Inc()
	c.JSON(http.StatusCreated, toDTO(a))
}

func (h *AppointmentHandler) parseScheduleRequest(c *gin.Context, req *scheduleRequest) (*appointment.ScheduleCommand, bool) {
	var fields []string

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		fields = append(fields, "id_paciente must be a valid UUID")
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		fields = append(fields, "id_medico must be a valid UUID")
	}
	fecha, err := appointment.ParseDate(req.Fecha)
	if err != nil {
		fields = append(fields, err.Error())
	}
	hora, err := appointment.ParseTimeOfDay(req.Hora)
	if err != nil {
		fields = append(fields, err.Error())
	}

	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Fields: fields})
		return nil, false
	}

	return &appointment.ScheduleCommand{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      fecha,
		Time:      hora,
		Specialty: req.Especialidad,
	}, true
}

// Find handles GET /citas/gestionarcita/?id_cita=&id_paciente=&id_medico=
func (h *AppointmentHandler) Find(c *gin.Context) {
	q := &appointment.FindQuery{}

	var fields []string
	setFilter := func(param string, dst **uuid.UUID) {
		raw := c.Query(param)
		if raw == "" {
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			fields = append(fields, param+" must be a valid UUID")
			return
		}
		*dst = &id
	}
	setFilter("id_cita", &q.ID)
	setFilter("id_paciente", &q.PatientID)
	setFilter("id_medico", &q.DoctorID)

	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Fields: fields})
		return
	}

	appointments, err := h.svc.Find(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]appointmentDTO, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, toDTO(a))
	}
	c.JSON(http.StatusOK, out)
}

type rescheduleRequest struct {
	ID    string `json:"id_cita" binding:"required"`
	Fecha string `json:"fecha"`
	Hora  string `json:"hora"`
}

// Reschedule handles PATCH /citas/gestionarcita/
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id_cita must be a valid UUID")
		return
	}

	cmd := &appointment.RescheduleCommand{ID: id}
	// Absent fecha/hora stay zero-valued; the service reports them missing
	// only after the appointment itself has been resolved.
	if req.Fecha != "" {
		if cmd.Date, err = appointment.ParseDate(req.Fecha); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Hora != "" {
		if cmd.Time, err = appointment.ParseTimeOfDay(req.Hora); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	if _, err := h.svc.Reschedule(c.Request.Context(), cmd, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsMoved.Inc()
	c.JSON(http.StatusOK, MessageResponse{Message: "Cita reprogramada exitosamente."})
}

// Cancel handles DELETE /citas/gestionarcita/?id_cita=
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	raw := c.Query("id_cita")
	if raw == "" {
		respondError(c, http.StatusBadRequest, "debe proporcionar id_cita")
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id_cita must be a valid UUID")
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsDropped.Inc()
	c.JSON(http.StatusOK, MessageResponse{Message: "Cita cancelada exitosamente."})
}

func bookingOutcome(err error) string {
	switch err {
	case appointment.ErrSlotTaken, appointment.ErrDuplicateAppointment:
		return "conflict"
	default:
		return "rejected"
	}
}
