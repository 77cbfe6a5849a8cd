package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/gridiron-sim-viewer/internal/middleware"
	"github.com/irfndi/gridiron-sim-viewer/internal/models"
	"github.com/irfndi/gridiron-sim-viewer/internal/services"
	"github.com/irfndi/gridiron-sim-viewer/internal/utils"
	"github.com/irfndi/gridiron-sim-viewer/internal/views"
)

// SimulationHandler serves the viewer page and the simulation JSON API for
// the caller's session.
type SimulationHandler struct {
	logger *logrus.Logger
}

func NewSimulationHandler(logger *logrus.Logger) *SimulationHandler {
	return &SimulationHandler{logger: logger}
}

// CatalogResponse lists the values the form accepts.
type CatalogResponse struct {
	Teams  []models.TeamCode    `json:"teams"`
	Models []models.GameModel   `json:"game_models"`
	Modes  []models.SeriesGroup `json:"modes"`
}

// SubmitResponse reports whether a submission was issued. Outcome and
// Superseded are only known once a waited submission has completed.
type SubmitResponse struct {
	Issued     bool                  `json:"issued"`
	Sequence   uint64                `json:"sequence,omitempty"`
	Outcome    models.Lifecycle      `json:"outcome,omitempty"`
	Superseded bool                  `json:"superseded"`
	Error      string                `json:"error,omitempty"`
	Field      string                `json:"field,omitempty"`
	Simulation *views.SimulationView `json:"simulation,omitempty"`
}

// Page renders the full viewer page.
func (h *SimulationHandler) Page(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}

	view := views.NewSimulationView(orch.Snapshot())
	if next, err := view.WithMode(modeParam(c)); err == nil {
		view = next
	} else {
		h.logger.WithField("mode", c.Query("mode")).Debug("Ignoring unknown featured game mode")
	}

	c.Header("Cache-Control", "no-store")
	templ.Handler(views.Page(view)).ServeHTTP(c.Writer, c.Request)
}

// SubmitForm handles the HTML form post: it stores the inputs, submits and
// redirects back to the page. A rejected form is not an error for the user.
func (h *SimulationHandler) SubmitForm(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}

	home := c.PostForm("home_team")
	away := c.PostForm("away_team")
	model := c.PostForm("game_model")
	count, err := strconv.Atoi(strings.TrimSpace(c.PostForm("num_simulations")))
	if err != nil {
		count = 0
	}
	orch.UpdateForm(services.FormUpdate{
		HomeTeam:       &home,
		AwayTeam:       &away,
		NumSimulations: &count,
		GameModel:      &model,
	})

	if _, err := orch.Submit(c.Request.Context()); err != nil && !utils.IsValidationError(err) {
		h.logger.WithError(err).WithField("session_id", middleware.SessionID(c)).Warn("Form submission failed")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Catalog returns the team, model and chart mode choices.
func (h *SimulationHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, CatalogResponse{
		Teams:  models.AllTeams,
		Models: models.AllGameModels,
		Modes:  models.AllSeriesGroups,
	})
}

// GetSimulation returns the current state as JSON.
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}

	view, err := views.NewSimulationView(orch.Snapshot()).WithMode(modeParam(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateForm applies a partial form edit.
func (h *SimulationHandler) UpdateForm(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}

	var update services.FormUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusOK, orch.UpdateForm(update))
}

// Submit issues a simulation for the current form, optionally overridden by
// a JSON body. With ?wait=true it answers once the outcome is known.
func (h *SimulationHandler) Submit(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}

	if c.Request.ContentLength != 0 {
		var update services.FormUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		orch.UpdateForm(update)
	}

	sub, err := orch.Submit(c.Request.Context())
	if err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusUnprocessableEntity, SubmitResponse{Issued: false, Error: ve.Message, Field: ve.Field})
			return
		}
		h.logger.WithError(err).WithField("session_id", middleware.SessionID(c)).Error("Failed to submit simulation")
		c.JSON(http.StatusServiceUnavailable, SubmitResponse{Issued: false, Error: err.Error()})
		return
	}

	status := http.StatusAccepted
	if c.Query("wait") == "true" {
		if err := orch.Wait(c.Request.Context(), sub); err == nil {
			status = http.StatusOK
		}
	}

	view := views.NewSimulationView(orch.Snapshot())
	c.JSON(status, SubmitResponse{
		Issued:     true,
		Sequence:   sub.Seq,
		Outcome:    sub.Outcome(),
		Superseded: sub.Superseded(),
		Simulation: &view,
	})
}

// orchestrator fetches the session orchestrator or aborts the request.
func orchestrator(c *gin.Context) (*services.Orchestrator, bool) {
	orch, ok := middleware.Orchestrator(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No session"})
		return nil, false
	}
	return orch, true
}

// modeParam reads ?mode=, defaulting to the initial chart mode.
func modeParam(c *gin.Context) models.SeriesGroup {
	mode := strings.ToLower(strings.TrimSpace(c.Query("mode")))
	if mode == "" {
		return views.DefaultMode
	}
	return models.SeriesGroup(mode)
}
