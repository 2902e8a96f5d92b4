package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dagdeps/depview"
	"github.com/kbukum/dagdeps/graphcache"
	"github.com/kbukum/dagdeps/logger"
	"github.com/kbukum/dagdeps/observability"
)

// DependenciesPath serves the rendered dependency graph.
const DependenciesPath = "/dag-dependencies"

// GraphReader is the read side of graphcache.Cache.
type GraphReader interface {
	Get(ctx context.Context) (*graphcache.Snapshot, error)
}

// Dependencies renders the cached graph. The orientation, width and height
// query parameters override the configured layout hints.
//
// A refresh failure with a previously built graph answers 200 with
// stale=true; when no graph was ever built the error is returned as is.
func Dependencies(reader GraphReader, view depview.Config, log *logger.Logger) gin.HandlerFunc {
	defaults := view.Params()
	return func(c *gin.Context) {
		params := depview.Params{
			Orientation: c.Query("orientation"),
			Width:       c.Query("width"),
			Height:      c.Query("height"),
		}
		if err := params.Validate(); err != nil {
			RespondWithError(c, err)
			return
		}
		params = params.Merge(defaults)

		ctx := c.Request.Context()
		snap, err := reader.Get(ctx)
		if err != nil {
			observability.SetSpanError(ctx, err)
			if snap == nil || !snap.Built() {
				RespondWithError(c, err)
				return
			}
			log.Warn("serving stale dependency graph", logger.Fields(
				logger.FieldError, err.Error(),
				"refreshed_at", snap.RefreshedAt,
			))
		}

		v := depview.Render(view.Title, snap, params, err)
		observability.SetSpanAttribute(ctx, observability.AttrGraphNodes, len(v.Nodes))
		observability.SetSpanAttribute(ctx, observability.AttrGraphEdges, len(v.Edges))
		c.JSON(http.StatusOK, v)
	}
}

// RegisterDependencies mounts the dependency view.
func (s *Server) RegisterDependencies(reader GraphReader, view depview.Config) {
	s.engine.GET(DependenciesPath, Dependencies(reader, view, s.log))
}
