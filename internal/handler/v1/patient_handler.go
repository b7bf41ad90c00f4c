package v1

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citaflow/citaflow/internal/domain/patient"
	"github.com/citaflow/citaflow/internal/service"
	"github.com/citaflow/citaflow/pkg/metrics"
)

type PatientHandler struct {
	svc       *service.PatientService
	collector *metrics.Collector
}

func NewPatientHandler(svc *service.PatientService, collector *metrics.Collector) *PatientHandler {
	return &PatientHandler{svc: svc, collector: collector}
}

type patientDTO struct {
	ID         string `json:"id_paciente"`
	NationalID string `json:"dni"`
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	Email      string `json:"email"`
	Phone      string `json:"telefono,omitempty"`
}

func toPatientDTO(p *patient.Patient) patientDTO {
	return patientDTO{
		ID:         p.ID.String(),
		NationalID: p.NationalID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
	}
}

type createPatientRequest struct {
	NationalID string `json:"dni"`
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	Email      string `json:"email"`
	Phone      string `json:"telefono"`
	Password   string `json:"contrasena"`
}

func (r *createPatientRequest) toCommand() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		NationalID: r.NationalID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Password:   r.Password,
	}
}

// Create handles POST /citas/paciente/. The body may be a single patient
// object or an array for bulk registration; bulk items succeed or fail
// independently.
func (h *PatientHandler) Create(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "reading request body")
		return
	}

	if len(body) > 0 && body[0] == '[' {
		h.createBulk(c, body)
		return
	}

	var req createPatientRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	p, err := h.svc.CreatePatient(c.Request.Context(), req.toCommand(), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.PatientsCreated.Inc()
	c.JSON(http.StatusCreated, toPatientDTO(p))
}

type bulkPatientResponse struct {
	Resultados []patientDTO `json:"resultados"`
	Errores    []string     `json:"errores"`
}

func (h *PatientHandler) createBulk(c *gin.Context, body []byte) {
	var reqs []createPatientRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	cmds := make([]*patient.CreatePatientCommand, 0, len(reqs))
	for i := range reqs {
		cmds = append(cmds, reqs[i].toCommand())
	}

	res := h.svc.CreatePatients(c.Request.Context(), cmds, c.ClientIP())

	out := bulkPatientResponse{
		Resultados: make([]patientDTO, 0, len(res.Created)),
		Errores:    res.Errors,
	}
	for _, p := range res.Created {
		out.Resultados = append(out.Resultados, toPatientDTO(p))
		h.collector.PatientsCreated.Inc()
	}
	if out.Errores == nil {
		out.Errores = []string{}
	}

	c.JSON(http.StatusMultiStatus, out)
}

// List handles GET /citas/paciente/
func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.svc.ListPatients(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]patientDTO, 0, len(patients))
	for _, p := range patients {
		out = append(out, toPatientDTO(p))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /citas/paciente/:id
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPatientDTO(p))
}

type updatePatientRequest struct {
	FirstName *string `json:"nombre"`
	LastName  *string `json:"apellido"`
	Email     *string `json:"email"`
	Phone     *string `json:"telefono"`
}

// Update handles PUT /citas/paciente/:id
func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.UpdatePatient(c.Request.Context(), id, &patient.UpdatePatientCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPatientDTO(p))
}

// Delete handles DELETE /citas/paciente/:id
func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePatient(c.Request.Context(), id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Paciente eliminado exitosamente."})
}
