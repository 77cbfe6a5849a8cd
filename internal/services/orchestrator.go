package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/irfndi/gridiron-sim-viewer/internal/models"
	"github.com/irfndi/gridiron-sim-viewer/internal/simengine"
	"github.com/irfndi/gridiron-sim-viewer/internal/utils"
)

// ErrOrchestratorClosed is returned by Submit after Close.
var ErrOrchestratorClosed = errors.New("orchestrator closed")

// SimulationRunner runs one simulation batch on the remote engine.
type SimulationRunner interface {
	RunSimulation(ctx context.Context, req simengine.SimulationRequest) (*simengine.SimulationResponse, error)
}

// FormState holds the user's current, unvalidated form inputs.
type FormState struct {
	HomeTeam       string `json:"home_team"`
	AwayTeam       string `json:"away_team"`
	NumSimulations int    `json:"num_simulations"`
	GameModel      string `json:"game_model"`
}

// FormUpdate is a partial form edit; nil fields are left unchanged.
type FormUpdate struct {
	HomeTeam       *string `json:"home_team,omitempty"`
	AwayTeam       *string `json:"away_team,omitempty"`
	NumSimulations *int    `json:"num_simulations,omitempty"`
	GameModel      *string `json:"game_model,omitempty"`
}

// OrchestratorConfig wires an orchestrator to its collaborators.
type OrchestratorConfig struct {
	Timeout  time.Duration
	Defaults FormState
	Breaker  *CircuitBreaker
	Logger   *logrus.Logger
	Tracer   trace.Tracer
}

// Snapshot is a read-only copy of the orchestrator state for rendering.
type Snapshot struct {
	Lifecycle    models.Lifecycle          `json:"lifecycle"`
	Sequence     uint64                    `json:"sequence"`
	Form         FormState                 `json:"form"`
	Request      *models.SimulationRequest `json:"request,omitempty"`
	Message      string                    `json:"message"`
	HomeWinPct   *float64                  `json:"home_win_pct,omitempty"`
	StatRows     []models.StatRow          `json:"stat_rows,omitempty"`
	Series       []models.Series           `json:"series,omitempty"`
	Degradations []models.Degradation      `json:"degradations,omitempty"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// Submission tracks one issued simulation request.
type Submission struct {
	Seq     uint64
	Request models.SimulationRequest

	cancel     context.CancelFunc
	done       chan struct{}
	outcome    atomic.Int32
	superseded atomic.Bool
}

// Done is closed once the submission's outcome has been applied or discarded.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Outcome reports the lifecycle this submission produced. Only meaningful
// after Done is closed.
func (s *Submission) Outcome() models.Lifecycle {
	return models.Lifecycle(s.outcome.Load())
}

// Superseded reports whether a newer submission replaced this one before it
// completed, in which case its response was discarded.
func (s *Submission) Superseded() bool {
	return s.superseded.Load()
}

// Orchestrator owns the simulation form, the request lifecycle and every
// piece of response-derived data for one viewer.
//
// Each Submit bumps a sequence number and cancels the previous in-flight
// call; a completion is applied only if its sequence number is still the
// latest, so a slow stale response can never overwrite a fresh one.
type Orchestrator struct {
	runner  SimulationRunner
	breaker *CircuitBreaker
	timeout time.Duration
	logger  *logrus.Logger
	tracer  trace.Tracer

	mu           sync.Mutex
	closed       bool
	form         FormState
	lifecycle    models.Lifecycle
	seq          uint64
	current      *Submission
	request      *models.SimulationRequest
	message      string
	homeWinPct   *float64
	statRows     []models.StatRow
	series       []models.Series
	degradations []models.Degradation
	updatedAt    time.Time
}

// NewOrchestrator creates an orchestrator in the Idle state.
func NewOrchestrator(runner SimulationRunner, cfg OrchestratorConfig) *Orchestrator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer("github.com/irfndi/gridiron-sim-viewer/internal/services")
	}

	return &Orchestrator{
		runner:    runner,
		breaker:   cfg.Breaker,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
		tracer:    cfg.Tracer,
		form:      cfg.Defaults,
		lifecycle: models.LifecycleIdle,
		updatedAt: time.Now(),
	}
}

// Form returns the current form inputs.
func (o *Orchestrator) Form() FormState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.form
}

// UpdateForm applies a partial edit. Edits are allowed in every lifecycle
// state and never touch an already issued request.
func (o *Orchestrator) UpdateForm(update FormUpdate) FormState {
	o.mu.Lock()
	defer o.mu.Unlock()

	if update.HomeTeam != nil {
		o.form.HomeTeam = *update.HomeTeam
	}
	if update.AwayTeam != nil {
		o.form.AwayTeam = *update.AwayTeam
	}
	if update.NumSimulations != nil {
		o.form.NumSimulations = *update.NumSimulations
	}
	if update.GameModel != nil {
		o.form.GameModel = *update.GameModel
	}
	return o.form
}

// Submit validates the current form and, if valid, issues a simulation
// request. An invalid form returns a *utils.ValidationError and leaves the
// lifecycle and all data untouched.
//
// The call runs detached from ctx's cancellation (ctx only contributes values
// such as the trace span) and is bounded by the configured timeout.
func (o *Orchestrator) Submit(ctx context.Context) (*Submission, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil, ErrOrchestratorClosed
	}

	req, err := buildRequest(o.form)
	if err != nil {
		o.logger.WithError(err).Debug("Simulation submission rejected")
		return nil, err
	}
	if req.MirrorMatch() {
		o.logger.WithField("team", req.Home).Debug("Mirror match submitted")
	}

	if o.current != nil {
		o.current.superseded.Store(true)
		o.current.cancel()
		o.logger.WithField("sequence", o.current.Seq).Info("Cancelling superseded simulation request")
	}

	o.seq++
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
	sub := &Submission{
		Seq:     o.seq,
		Request: req,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	o.current = sub

	// Entering Pending clears every result of the previous cycle.
	o.lifecycle = models.LifecyclePending
	o.request = &req
	o.clearResults()
	o.updatedAt = time.Now()

	o.logger.WithFields(logrus.Fields{
		"sequence":        sub.Seq,
		"home_team":       req.Home,
		"away_team":       req.Away,
		"num_simulations": req.Count,
		"game_model":      req.Model,
	}).Info("Simulation request issued")

	go o.run(runCtx, sub)
	return sub, nil
}

// Wait blocks until sub completes or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context, sub *Submission) error {
	select {
	case <-sub.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := Snapshot{
		Lifecycle:    o.lifecycle,
		Sequence:     o.seq,
		Form:         o.form,
		Message:      o.message,
		StatRows:     append([]models.StatRow(nil), o.statRows...),
		Series:       append([]models.Series(nil), o.series...),
		Degradations: append([]models.Degradation(nil), o.degradations...),
		UpdatedAt:    o.updatedAt,
	}
	if o.request != nil {
		req := *o.request
		snap.Request = &req
	}
	if o.homeWinPct != nil {
		p := *o.homeWinPct
		snap.HomeWinPct = &p
	}
	return snap
}

// Lifecycle returns the current lifecycle state.
func (o *Orchestrator) Lifecycle() models.Lifecycle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lifecycle
}

// Close cancels any in-flight request and refuses further submissions.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true
	if o.current != nil {
		o.current.superseded.Store(true)
		o.current.cancel()
		o.current = nil
	}
	// Any completion still in flight now carries a stale sequence number.
	o.seq++
}

func (o *Orchestrator) run(ctx context.Context, sub *Submission) {
	defer close(sub.done)
	defer sub.cancel()

	ctx, span := o.tracer.Start(ctx, "simulation.run", trace.WithAttributes(
		attribute.Int64("simulation.sequence", int64(sub.Seq)),
		attribute.String("simulation.home_team", sub.Request.Home.String()),
		attribute.String("simulation.away_team", sub.Request.Away.String()),
		attribute.Int("simulation.count", sub.Request.Count),
		attribute.String("simulation.model", sub.Request.Model.String()),
	))
	defer span.End()

	wire := simengine.SimulationRequest{
		HomeTeam:       sub.Request.Home.String(),
		AwayTeam:       sub.Request.Away.String(),
		NumSimulations: sub.Request.Count,
		GameModel:      sub.Request.Model.String(),
	}

	var resp *simengine.SimulationResponse
	call := func(ctx context.Context) error {
		r, err := o.runner.RunSimulation(ctx, wire)
		resp = r
		return err
	}

	var err error
	if o.breaker != nil {
		err = o.breaker.Execute(ctx, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	outcome := o.complete(sub, resp, err)
	span.SetAttributes(attribute.String("simulation.outcome", outcome))
}

// complete applies the outcome of sub if it is still the latest submission.
func (o *Orchestrator) complete(sub *Submission, resp *simengine.SimulationResponse, err error) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if sub.Seq != o.seq {
		sub.superseded.Store(true)
		o.logger.WithFields(logrus.Fields{
			"sequence": sub.Seq,
			"latest":   o.seq,
		}).Debug("Discarding stale simulation response")
		return "discarded"
	}
	o.current = nil
	o.updatedAt = time.Now()

	if err != nil {
		o.lifecycle = models.LifecycleFailed
		o.message = failureMessage(err, o.timeout)
		sub.outcome.Store(int32(o.lifecycle))
		o.logger.WithError(err).WithField("sequence", sub.Seq).Error("Simulation request failed")
		return o.lifecycle.String()
	}

	o.applyResponse(sub, resp)
	o.lifecycle = models.LifecycleSucceeded
	sub.outcome.Store(int32(o.lifecycle))
	o.logger.WithFields(logrus.Fields{
		"sequence":     sub.Seq,
		"home_win_pct": *o.homeWinPct,
		"degradations": o.degradations,
	}).Info("Simulation request succeeded")
	return o.lifecycle.String()
}

// applyResponse fans a well-formed response out to the projector and the
// series builder. Incomplete parts are flagged, not failed.
func (o *Orchestrator) applyResponse(sub *Submission, resp *simengine.SimulationResponse) {
	p := *resp.HomeWinPct
	o.homeWinPct = &p
	o.message = resp.ResultString

	o.statRows = ProjectStatRows(resp.TotalStats)
	if len(o.statRows) != 2 {
		o.degradations = append(o.degradations, models.DegradationStatRowsIncomplete)
		o.logger.WithFields(logrus.Fields{
			"sequence":  sub.Seq,
			"stat_rows": len(o.statRows),
		}).Warn("Simulation response did not carry exactly two stat rows")
	}

	game, err := FeaturedGameFromResponse(resp)
	if err == nil {
		o.series, err = BuildSeries(sub.Request.Home, sub.Request.Away, game)
	}
	if err != nil {
		o.series = nil
		o.degradations = append(o.degradations, models.DegradationFeaturedGameIncomplete)
		o.logger.WithError(err).WithField("sequence", sub.Seq).Warn("Featured game could not be built")
	}
}

func (o *Orchestrator) clearResults() {
	o.message = ""
	o.homeWinPct = nil
	o.statRows = nil
	o.series = nil
	o.degradations = nil
}

// buildRequest validates the form. Team and model identifiers must belong
// to their closed sets and the count must be positive.
func buildRequest(form FormState) (models.SimulationRequest, error) {
	if form.HomeTeam == "" {
		return models.SimulationRequest{}, utils.NewValidationError("home_team", "required")
	}
	if form.AwayTeam == "" {
		return models.SimulationRequest{}, utils.NewValidationError("away_team", "required")
	}
	home, err := models.ParseTeamCode(form.HomeTeam)
	if err != nil {
		return models.SimulationRequest{}, utils.NewValidationError("home_team", err.Error())
	}
	away, err := models.ParseTeamCode(form.AwayTeam)
	if err != nil {
		return models.SimulationRequest{}, utils.NewValidationError("away_team", err.Error())
	}
	if form.NumSimulations <= 0 {
		return models.SimulationRequest{}, utils.NewValidationErrorf("num_simulations", "must be positive, got %d", form.NumSimulations)
	}
	model, err := models.ParseGameModel(form.GameModel)
	if err != nil {
		return models.SimulationRequest{}, utils.NewValidationError("game_model", err.Error())
	}
	return models.SimulationRequest{Home: home, Away: away, Count: form.NumSimulations, Model: model}, nil
}

// failureMessage turns a transport or protocol error into a short,
// operator-readable sentence.
func failureMessage(err error, timeout time.Duration) string {
	var statusErr *simengine.StatusError
	switch {
	case errors.Is(err, ErrCircuitOpen):
		return "Error running simulation: the simulation engine is unavailable, try again shortly"
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Error running simulation: no response within %s", timeout)
	case errors.Is(err, simengine.ErrMalformedResponse):
		return "Error running simulation: the simulation engine sent an unreadable response"
	case errors.As(err, &statusErr):
		return "Error running simulation: " + statusErr.Error()
	default:
		return "Error running simulation: could not reach the simulation engine"
	}
}
