package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/citaflow/citaflow/internal/domain"
	"github.com/citaflow/citaflow/internal/domain/appointment"
	"github.com/citaflow/citaflow/internal/domain/doctor"
	"github.com/citaflow/citaflow/internal/domain/notification"
	"github.com/citaflow/citaflow/internal/domain/patient"
	"github.com/citaflow/citaflow/internal/service"
	"github.com/citaflow/citaflow/pkg/metrics"
)

// promauto registers on the default registry, so all tests share one collector.
var (
	testCollector     *metrics.Collector
	testCollectorOnce sync.Once
)

func collector() *metrics.Collector {
	testCollectorOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		testCollector = metrics.NewCollector("citaflow_test")
	})
	return testCollector
}

// memAppointmentRepo is an in-memory appointment.Repository for exercising
// handlers through the real services.
type memAppointmentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*appointment.Appointment
}

var _ appointment.Repository = (*memAppointmentRepo)(nil)

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{items: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *memAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.items {
		if other.DoctorID == a.DoctorID && other.SameSlot(a.Date, a.Time) {
			return appointment.ErrSlotTaken
		}
	}
	a.ID = uuid.New()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAppointmentRepo) Find(ctx context.Context, q *appointment.FindQuery) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.items {
		if q.ID != nil && a.ID != *q.ID {
			continue
		}
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memAppointmentRepo) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, t appointment.TimeOfDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	for otherID, other := range r.items {
		if otherID != id && other.SameSlot(date, t) {
			return appointment.ErrSlotTaken
		}
	}
	a.Date = date
	a.Time = t
	return nil
}

func (r *memAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memAppointmentRepo) OccupiedTimes(ctx context.Context, specialty string, date time.Time) ([]appointment.TimeOfDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []appointment.TimeOfDay
	for _, a := range r.items {
		if a.Specialty == specialty && a.Date.Equal(date) {
			out = append(out, a.Time)
		}
	}
	return out, nil
}

type stubPatientRepo struct {
	patient.Repository
	exists bool
}

func (s *stubPatientRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists, nil
}

type stubDoctorRepo struct {
	doctor.Repository
	exists bool
}

func (s *stubDoctorRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists, nil
}

type nullNotificationRepo struct{}

func (nullNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	return nil
}

func (nullNotificationRepo) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*notification.Notification, error) {
	return nil, nil
}

type nullAuditRepo struct{}

func (nullAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	return nil
}

func newTestRouter(t *testing.T, repo appointment.Repository, patientExists, doctorExists bool) *gin.Engine {
	t.Helper()
	log := zap.NewNop()

	notifier := service.NewNotificationService(nullNotificationRepo{}, log)
	t.Cleanup(notifier.Shutdown)
	auditSvc := service.NewAuditService(nullAuditRepo{}, log)
	t.Cleanup(auditSvc.Shutdown)

	scheduling := service.NewSchedulingService(
		repo,
		&stubPatientRepo{exists: patientExists},
		&stubDoctorRepo{exists: doctorExists},
		notifier,
		auditSvc,
		log,
	)
	availability := service.NewAvailabilityService(repo, log)

	apptHandler := NewAppointmentHandler(scheduling, collector())
	availHandler := NewAvailabilityHandler(availability, collector())

	r := gin.New()
	citas := r.Group("/citas")
	{
		citas.GET("/disponibilidad/", availHandler.Get)
		citas.POST("/agendar/", apptHandler.Schedule)
		citas.GET("/gestionarcita/", apptHandler.Find)
		citas.PATCH("/gestionarcita/", apptHandler.Reschedule)
		citas.DELETE("/gestionarcita/", apptHandler.Cancel)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func scheduleBody(patientID, doctorID uuid.UUID, fecha, hora string) map[string]string {
	return map[string]string{
		"id_paciente":  patientID.String(),
		"id_medico":    doctorID.String(),
		"fecha":        fecha,
		"hora":         hora,
		"especialidad": "Cardiologia",
	}
}

func futureFecha() string {
	return appointment.Today().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestScheduleEndpoint_Created(t *testing.T) {
	r := newTestRouter(t, newMemAppointmentRepo(), true, true)

	w := doJSON(t, r, http.MethodPost, "/citas/agendar/",
		scheduleBody(uuid.New(), uuid.New(), futureFecha(), "10:00:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var dto appointmentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Len(t, dto.RefCode, appointment.RefCodeLength)
	assert.Equal(t, "confirmada", dto.Estado)
	assert.Equal(t, "10:00:00", dto.Hora)
	_, err := uuid.Parse(dto.ID)
	assert.NoError(t, err)
}

func TestScheduleEndpoint_BadInputs(t *testing.T) {
	r := newTestRouter(t, newMemAppointmentRepo(), true, true)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"malformed patient id", scheduleBody(uuid.New(), uuid.New(), futureFecha(), "10:00:00")},
		{"bad date format", scheduleBody(uuid.New(), uuid.New(), "07/03/2999", "10:00:00")},
		{"bad time format", scheduleBody(uuid.New(), uuid.New(), futureFecha(), "10am")},
	}
	cases[0].body["id_paciente"] = "not-a-uuid"

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/citas/agendar/", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestScheduleEndpoint_MissingFields(t *testing.T) {
	r := newTestRouter(t, newMemAppointmentRepo(), true, true)

	w := doJSON(t, r, http.MethodPost, "/citas/agendar/", map[string]string{"fecha": futureFecha()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleEndpoint_UnknownPatient(t *testing.T) {
	r := newTestRouter(t, newMemAppointmentRepo(), false, true)

	w := doJSON(t, r, http.MethodPost, "/citas/agendar/",
		scheduleBody(uuid.New(), uuid.New(), futureFecha(), "10:00:00"))
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestScheduleEndpoint_PastDate(t *testing.T) {
	r := newTestRouter(t, newMemAppointmentRepo(), true, true)

	w := doJSON(t, r, http.MethodPost, "/citas/agendar/",
		scheduleBody(uuid.New(), uuid.New(), "2020-01-01", "10:00:00"))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestScheduleEndpoint_SlotConflict(t *testing.T) {
	r := newTestRouter(t, newMemAppointmentRepo(), true, true)
	doctorID := uuid.New()
	fecha := futureFecha()

	w := doJSON(t, r, http.MethodPost, "/citas/agendar/",
		scheduleBody(uuid.New(), doctorID, fecha, "10:00:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/citas/agendar/",
		scheduleBody(uuid.New(), doctorID, fecha, "10:00:00"))
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

// Booking a slot must remove it from the availability listing for the same
// specialty and date.
func TestScheduleThenAvailability(t *testing.T) {
	r := newTestRouter(t, newMemAppointmentRepo(), true, true)
	fecha := futureFecha()

	w := doJSON(t, r, http.MethodPost, "/citas/agendar/",
		scheduleBody(uuid.New(), uuid.New(), fecha, "11:00:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/citas/disponibilidad/?especialidad=Cardiologia&fecha=%s", fecha), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Disponibles []appointment.TimeOfDay `json:"disponibles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp.Disponibles, appointment.TimeOfDay("11:00:00"))
	assert.Len(t, resp.Disponibles, len(appointment.DailySlots())-1)
}

func TestAvailabilityEndpoint_MissingParams(t *testing.T) {
	r := newTestRouter(t, newMemAppointmentRepo(), true, true)

	w := doJSON(t, r, http.MethodGet, "/citas/disponibilidad/?fecha="+futureFecha(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/citas/disponibilidad/?especialidad=Cardiologia", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRescheduleEndpoint(t *testing.T) {
	repo := newMemAppointmentRepo()
	r := newTestRouter(t, repo, true, true)
	fecha := futureFecha()

	w := doJSON(t, r, http.MethodPost, "/citas/agendar/",
		scheduleBody(uuid.New(), uuid.New(), fecha, "09:00:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	var dto appointmentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))

	t.Run("unknown appointment is 404 even with fields missing", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/citas/gestionarcita/",
			map[string]string{"id_cita": uuid.NewString()})
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	t.Run("missing fecha and hora is 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/citas/gestionarcita/",
			map[string]string{"id_cita": dto.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	t.Run("same slot is 409", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/citas/gestionarcita/",
			map[string]string{"id_cita": dto.ID, "fecha": fecha, "hora": "09:00:00"})
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	t.Run("valid move is 200 with message", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/citas/gestionarcita/",
			map[string]string{"id_cita": dto.ID, "fecha": fecha, "hora": "14:00:00"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var msg MessageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
		assert.Equal(t, "Cita reprogramada exitosamente.", msg.Message)
	})
}

func TestCancelEndpoint(t *testing.T) {
	repo := newMemAppointmentRepo()
	r := newTestRouter(t, repo, true, true)

	w := doJSON(t, r, http.MethodPost, "/citas/agendar/",
		scheduleBody(uuid.New(), uuid.New(), futureFecha(), "13:00:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	var dto appointmentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))

	t.Run("missing id_cita is 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodDelete, "/citas/gestionarcita/", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("first cancel succeeds, second is 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodDelete, "/citas/gestionarcita/?id_cita="+dto.ID, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(t, r, http.MethodDelete, "/citas/gestionarcita/?id_cita="+dto.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

func TestFindEndpoint(t *testing.T) {
	repo := newMemAppointmentRepo()
	r := newTestRouter(t, repo, true, true)
	patientID := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/citas/agendar/",
		scheduleBody(patientID, uuid.New(), futureFecha(), "15:00:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("no filter is 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/citas/gestionarcita/", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("filter by patient", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/citas/gestionarcita/?id_paciente="+patientID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var out []appointmentDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out, 1)
		assert.Equal(t, patientID.String(), out[0].PatientID)
	})

	t.Run("unknown patient yields empty list", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/citas/gestionarcita/?id_paciente="+uuid.NewString(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("malformed filter is 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/citas/gestionarcita/?id_medico=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
