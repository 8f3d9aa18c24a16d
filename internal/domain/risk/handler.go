package risk

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sepsisdss/sepsisdss/internal/domain/observation"
	"github.com/sepsisdss/sepsisdss/internal/platform/auth"
	"github.com/sepsisdss/sepsisdss/internal/platform/model"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("nurse", "physician"))
	g.POST("/visits/:id/observations", h.Submit)
	g.GET("/visits/:id/risk-scores/current", h.Current)
	g.GET("/visits/:id/risk-scores", h.History)
	g.GET("/visits/:id/features", h.Features)
}

type submitRequest struct {
	Vitals *observation.Vitals `json:"vitals,omitempty"`
	Labs   *observation.Labs   `json:"labs,omitempty"`
}

func (h *Handler) Submit(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	enteredBy := auth.UserFromContext(c.Request().Context())
	result, err := h.svc.SubmitObservations(c.Request().Context(), visitID, enteredBy, req.Vitals, req.Labs)
	if err != nil {
		var scoringErr *model.ScoringError
		switch {
		case errors.As(err, &scoringErr):
			return echo.NewHTTPError(http.StatusBadGateway, scoringErr.Error())
		case errors.Is(err, ErrInvalidSubmission):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			// Storage failure; the action failed, the session did not.
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) Current(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	s, err := h.svc.CurrentScore(c.Request().Context(), visitID)
	if errors.Is(err, pgx.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "no risk score for visit")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) History(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	scores, err := h.svc.History(c.Request().Context(), visitID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, scores)
}

// Features exposes the assembled vector without scoring, for verifying what
// the model would see.
func (h *Handler) Features(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	fv, err := h.svc.AssembleFeatures(c.Request().Context(), visitID)
	if errors.Is(err, ErrNoObservations) {
		return echo.NewHTTPError(http.StatusNotFound, "visit has no complete vitals and labs yet")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, fv)
}
