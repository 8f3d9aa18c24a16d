package patient

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sepsisdss/sepsisdss/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("nurse", "physician"))
	g.GET("/patients/:id", h.Lookup)
	g.POST("/patients", h.Register)
	g.PUT("/patients/:id", h.UpdateDetails)
	g.POST("/patients/:id/admit", h.Admit)
	g.POST("/patients/:id/discharge", h.Discharge)
	g.GET("/dashboard/admitted", h.Dashboard)
}

func (h *Handler) Lookup(c echo.Context) error {
	p, err := h.svc.Lookup(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

type registerRequest struct {
	Patient
	VisitDate   time.Time `json:"visit_date"`
	HospAdmTime float64   `json:"hosp_adm_time"`
	Location    *string   `json:"location,omitempty"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	createdBy := auth.UserFromContext(c.Request().Context())
	visitID, err := h.svc.Register(c.Request().Context(), &req.Patient, createdBy, req.VisitDate, req.HospAdmTime, req.Location)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"patient":  req.Patient,
		"visit_id": visitID,
	})
}

func (h *Handler) UpdateDetails(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.PatientID = c.Param("id")

	if err := h.svc.UpdateDetails(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Admit(c echo.Context) error {
	createdBy := auth.UserFromContext(c.Request().Context())
	visitID, err := h.svc.Admit(c.Request().Context(), c.Param("id"), createdBy)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"visit_id": visitID})
}

func (h *Handler) Discharge(c echo.Context) error {
	if err := h.svc.Discharge(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Dashboard(c echo.Context) error {
	rows, counts, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patients": rows,
		"bands":    counts,
	})
}
