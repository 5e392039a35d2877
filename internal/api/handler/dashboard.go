package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/smokespecialist/smokespecialist/internal/airquality"
	"github.com/smokespecialist/smokespecialist/internal/api/middleware"
	"github.com/smokespecialist/smokespecialist/internal/api/models"
	"github.com/smokespecialist/smokespecialist/internal/api/response"
	"github.com/smokespecialist/smokespecialist/internal/dashboard"
	"github.com/smokespecialist/smokespecialist/internal/fhir"
	"github.com/smokespecialist/smokespecialist/internal/geocode"
	"github.com/smokespecialist/smokespecialist/internal/patient"
)

// DashboardBuilder builds the dashboard view model.
type DashboardBuilder interface {
	Build(ctx context.Context, patientID, subject string) (*dashboard.Dashboard, error)
}

// DashboardHandler handles the dashboard endpoint.
type DashboardHandler struct {
	builder DashboardBuilder
	logger  zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(builder DashboardBuilder, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{builder: builder, logger: logger}
}

// GetDashboard handles GET /v1/dashboard. The patient is taken from the
// session token scope, never from the request, so a viewer cannot reach
// another patient's record by editing a URL.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetSession(r.Context())
	if claims == nil {
		response.Unauthorized(w, r, "missing session")
		return
	}

	d, err := h.builder.Build(r.Context(), claims.PatientID, claims.Subject)
	if err != nil {
		h.writeBuildError(w, r, claims.PatientID, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toDashboardResponse(d))
}

// writeBuildError maps pipeline failures onto the problem taxonomy.
func (h *DashboardHandler) writeBuildError(w http.ResponseWriter, r *http.Request, patientID string, err error) {
	h.logger.Error().
		Err(err).
		Str("patient_id", patientID).
		Msg("dashboard build failed")

	var dataErr *airquality.DataError

	switch {
	case errors.Is(err, fhir.ErrNotFound):
		response.NotFound(w, r, "patient record not found")
	case errors.Is(err, patient.ErrNoAddress):
		response.UnprocessableRecord(w, r, "patient record has no address")
	case errors.Is(err, patient.ErrMultipleAddresses):
		response.UnprocessableRecord(w, r, "patient record has multiple addresses")
	case errors.Is(err, patient.ErrMissingConditionName),
		errors.Is(err, patient.ErrMissingMedicationName),
		errors.Is(err, fhir.ErrMalformedResource):
		response.UnprocessableRecord(w, r, "patient record contains an unusable resource")
	case errors.Is(err, geocode.ErrAddressNotFound):
		response.UnprocessableRecord(w, r, "patient address could not be resolved to a location")
	case errors.As(err, &dataErr):
		response.UpstreamFailure(w, r, "environmental data is unavailable")
	default:
		response.UpstreamFailure(w, r, "dashboard could not be assembled")
	}
}

// toDashboardResponse converts the domain view model to the API payload.
func toDashboardResponse(d *dashboard.Dashboard) models.DashboardResponse {
	conditions := make([]models.ConditionRow, 0, len(d.Conditions))
	for _, c := range d.Conditions {
		conditions = append(conditions, models.ConditionRow{
			Name:               c.Name,
			ClinicalStatus:     c.ClinicalStatus,
			VerificationStatus: c.VerificationStatus,
		})
	}

	medications := make([]models.MedicationRow, 0, len(d.Medications))
	for _, m := range d.Medications {
		medications = append(medications, models.MedicationRow{
			Name:   m.Name,
			Status: m.Status,
		})
	}

	return models.DashboardResponse{
		PatientID: d.PatientID,
		Demographics: models.Demographics{
			Name:      d.Demographics.Name,
			Sex:       string(d.Demographics.Sex),
			BirthDate: d.Demographics.BirthDate,
			Address:   d.Demographics.Address,
		},
		Conditions:  conditions,
		Medications: medications,
		Location: models.Location{
			Lat: d.Coordinate.Lat,
			Lon: d.Coordinate.Lon,
		},
		MapURL: d.MapURL,
		Chart: models.Chart{
			Observed: toChartPoints(d.Observed),
			Forecast: toChartPoints(d.Forecast),
		},
		Advisory:    d.Advisory,
		GeneratedAt: models.Timestamp(d.GeneratedAt),
	}
}

func toChartPoints(readings []airquality.Reading) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(readings))
	for _, r := range readings {
		points = append(points, models.ChartPoint{
			Time: models.Timestamp(r.Time),
			AQI:  r.AQI,
		})
	}
	return points
}
