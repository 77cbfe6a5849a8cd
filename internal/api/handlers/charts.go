package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/gridiron-sim-viewer/internal/middleware"
	"github.com/irfndi/gridiron-sim-viewer/internal/views"
)

const svgContentType = "image/svg+xml"

// ChartHandler renders the result charts as SVG.
type ChartHandler struct {
	logger *logrus.Logger
}

func NewChartHandler(logger *logrus.Logger) *ChartHandler {
	return &ChartHandler{logger: logger}
}

// WinProbability renders the win split; 204 when there is nothing to show.
func (h *ChartHandler) WinProbability(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}

	view := views.NewSimulationView(orch.Snapshot())
	if !view.Results.Visible {
		c.Status(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := views.RenderWinProbabilitySVG(&buf, view.Results); err != nil {
		h.renderFailed(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, svgContentType, buf.Bytes())
}

// FeaturedGame renders the featured game chart in ?mode=; 204 when hidden.
func (h *ChartHandler) FeaturedGame(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}

	view, err := views.NewSimulationView(orch.Snapshot()).WithMode(modeParam(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !view.Featured.Visible {
		c.Status(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := views.RenderFeaturedGameSVG(&buf, view.Featured); err != nil {
		h.renderFailed(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, svgContentType, buf.Bytes())
}

func (h *ChartHandler) renderFailed(c *gin.Context, err error) {
	middleware.RecordError(c, err, "chart rendering failed")
	h.logger.WithError(err).WithFields(logrus.Fields{
		"path":       c.Request.URL.Path,
		"session_id": middleware.SessionID(c),
	}).Error("Failed to render chart")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
}
