package api

import (
	"time"

	"VolSurf/internal/domain/models"
	drepo "VolSurf/internal/domain/repository"
	"VolSurf/internal/usecase"
	xhttp "VolSurf/pkg/http"
	xlogger "VolSurf/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SurfacesEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type SurfacesEchoHandler struct {
	logger    *xlogger.Logger
	evaluator *usecase.SurfaceEvaluator
	store     drepo.ResultStore
}

func NewSurfacesEchoHandler(logger *xlogger.Logger, evaluator *usecase.SurfaceEvaluator, store drepo.ResultStore) *SurfacesEchoHandler {
	return &SurfacesEchoHandler{logger: logger, evaluator: evaluator, store: store}
}

func (h *SurfacesEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/surface/eval", h.Eval)
	g.POST("/surface/eval/batch", h.EvalBatch)
	g.GET("/surface/results", h.Results)
	g.GET("/health", h.Health)
}

// Eval evaluates a single surface group synchronously.
func (h *SurfacesEchoHandler) Eval(c echo.Context) error {
	req := &models.EvalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	useCache := req.UseCache == nil || *req.UseCache
	res, err := h.evaluator.Evaluate(c.Request().Context(), req.Group(), useCache)
	if err != nil {
		h.logger.Error("surface eval error",
			xlogger.String("asset", req.Asset),
			xlogger.String("as_of", req.AsOf),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("surface evaluation failed: %v", err))
	}
	return xhttp.SuccessResponse(c, res)
}

// EvalBatch evaluates several groups, isolating per-group failures.
func (h *SurfacesEchoHandler) EvalBatch(c echo.Context) error {
	req := &models.BatchEvalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	groups := make([]*models.SurfaceGroup, len(req.Groups))
	useCache := true
	for i := range req.Groups {
		groups[i] = req.Groups[i].Group()
		if req.Groups[i].UseCache != nil && !*req.Groups[i].UseCache {
			useCache = false
		}
	}

	results := h.evaluator.EvaluateBatch(c.Request().Context(), groups, useCache)
	for _, r := range results {
		if r.Failed() {
			h.logger.Warn("surface group failed",
				xlogger.String("asset", r.Asset),
				xlogger.String("as_of", r.AsOf),
				xlogger.String("reason", r.Error),
			)
		}
	}
	return xhttp.SuccessResponse(c, results)
}

// Results returns persisted interpolation results.
func (h *SurfacesEchoHandler) Results(c echo.Context) error {
	req := &models.ResultsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from := xhttp.ParseTimeDefault(c.QueryParam("from"), time.Time{})
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Time{})
	points, err := h.store.QueryPoints(c.Request().Context(), req.Asset, req.AsOf, from, to, req.Limit)
	if err != nil {
		h.logger.Error("results query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if len(points) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no results for asset "+req.Asset))
	}
	return xhttp.ListResponse(c, points, int64(len(points)))
}

// Health reports storage health.
func (h *SurfacesEchoHandler) Health(c echo.Context) error {
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("storage unhealthy: %v", err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
