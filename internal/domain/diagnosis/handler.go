package diagnosis

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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
	// Reading is open to the care team; recording and retracting a
	// diagnosis is a physician act.
	read := api.Group("", auth.RequireRole("nurse", "physician"))
	read.GET("/visits/:id/diagnosis", h.Latest)
	read.GET("/visits/:id/diagnosis/history", h.History)

	write := api.Group("", auth.RequireRole("physician"))
	write.POST("/visits/:id/diagnosis", h.Record)
	write.DELETE("/visits/:id/diagnosis", h.Retract)
}

type recordRequest struct {
	Sepsis bool `json:"sepsis"`
}

func (h *Handler) Record(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	diagnosedBy := auth.UserFromContext(c.Request().Context())
	d, err := h.svc.Record(c.Request().Context(), visitID, req.Sepsis, diagnosedBy)
	if errors.Is(err, ErrInvalidDiagnosis) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Latest(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	d, err := h.svc.Latest(c.Request().Context(), visitID)
	if errors.Is(err, pgx.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "no diagnosis recorded for visit")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) History(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	rows, err := h.svc.History(c.Request().Context(), visitID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) Retract(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	if err := h.svc.Retract(c.Request().Context(), visitID); err != nil {
		if errors.Is(err, ErrNoDiagnosis) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
