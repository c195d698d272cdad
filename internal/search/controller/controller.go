// Package controller exposes the search pipeline over HTTP.
package controller

import (
	"net/http"
	"strconv"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/ai-search/internal/search/dto"
	"github.com/Laisky/ai-search/internal/search/model"
	"github.com/Laisky/ai-search/internal/search/service"
)

// Controller binds the gin routes to the search service.
type Controller struct {
	svc *service.Service
}

// New creates a Controller over svc.
func New(svc *service.Service) *Controller {
	return &Controller{svc: svc}
}

// Search handles GET /search?q=&limit=&domain_hint=.
func (c *Controller) Search(ctx *gin.Context) {
	req := &model.Request{
		Query:      ctx.Query("q"),
		DomainHint: ctx.Query("domain_hint"),
	}

	if rawLimit := ctx.Query("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			abortWithError(ctx, http.StatusBadRequest,
				"InvalidRequest", "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	resp, err := c.svc.Search(ctx.Request.Context(), req)
	if err != nil {
		kind := model.ErrorKind(err)
		status := http.StatusInternalServerError
		switch kind {
		case "InvalidRequest":
			status = http.StatusBadRequest
		case "BackendUnavailable":
			status = http.StatusBadGateway
		}

		if status == http.StatusInternalServerError {
			gmw.GetLogger(ctx).Error("search failed", zap.Error(err))
		}

		abortWithError(ctx, status, kind, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Health handles GET /health.
func (c *Controller) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.svc.Health(ctx.Request.Context()))
}

// Stats handles GET /stats.
func (c *Controller) Stats(ctx *gin.Context) {
	resp, err := c.svc.Stats(ctx.Request.Context())
	if err != nil {
		gmw.GetLogger(ctx).Error("read stats", zap.Error(err))
		abortWithError(ctx, http.StatusServiceUnavailable,
			"Internal", "stats store unreachable")
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func abortWithError(ctx *gin.Context, status int, kind, detail string) {
	ctx.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error:  kind,
		Detail: detail,
	})
}
