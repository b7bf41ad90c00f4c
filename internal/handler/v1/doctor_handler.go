package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citaflow/citaflow/internal/domain/doctor"
	"github.com/citaflow/citaflow/internal/service"
)

type DoctorHandler struct {
	svc *service.DoctorService
}

func NewDoctorHandler(svc *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{svc: svc}
}

type doctorDTO struct {
	ID            string `json:"id_medico"`
	LicenseNumber string `json:"ncolegiado"`
	Name          string `json:"nombre"`
	Specialty     string `json:"especialidad"`
	Email         string `json:"email"`
}

func toDoctorDTO(d *doctor.Doctor) doctorDTO {
	return doctorDTO{
		ID:            d.ID.String(),
		LicenseNumber: d.LicenseNumber,
		Name:          d.Name,
		Specialty:     d.Specialty,
		Email:         d.Email,
	}
}

type createDoctorRequest struct {
	LicenseNumber string `json:"ncolegiado"`
	Name          string `json:"nombre"`
	Specialty     string `json:"especialidad"`
	Email         string `json:"email"`
}

// Create handles POST /citas/medico/ (admin only).
func (h *DoctorHandler) Create(c *gin.Context) {
	var req createDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.CreateDoctor(c.Request.Context(), &doctor.CreateDoctorCommand{
		LicenseNumber: req.LicenseNumber,
		Name:          req.Name,
		Specialty:     req.Specialty,
		Email:         req.Email,
	}, c.GetString("admin_id"), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDoctorDTO(d))
}

// List handles GET /citas/medico/
func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.svc.ListDoctors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]doctorDTO, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, toDoctorDTO(d))
	}
	c.JSON(http.StatusOK, out)
}
