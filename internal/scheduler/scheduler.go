package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mvickery/hearth-core/internal/alert"
	"github.com/mvickery/hearth-core/internal/calendar"
	"github.com/mvickery/hearth-core/internal/device"
	"github.com/mvickery/hearth-core/internal/events"
	"github.com/mvickery/hearth-core/internal/infrastructure/logging"
	"github.com/mvickery/hearth-core/internal/owner"
	"github.com/mvickery/hearth-core/internal/timer"
)

// DefaultTickInterval is the cadence used when configuration leaves the
// interval unset.
const DefaultTickInterval = 10 * time.Second

// Clock abstracts the time source so ticks can be driven in tests.
type Clock interface {
	Now() time.Time
}

// realClock is the production clock.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// EnergyWriter receives energy telemetry from tick evaluation.
// Satisfied by the InfluxDB client; nil disables telemetry.
type EnergyWriter interface {
	WriteEnergyFold(ownerID, deviceKey string, sessionKWh, cumulativeKWh float64, at time.Time)
	WriteAlertTrigger(ownerID, deviceKey, alertName string, valueKWh float64, at time.Time)
}

// Options configures a Scheduler.
type Options struct {
	// TickInterval is the cadence of the background loop.
	TickInterval time.Duration

	// GraceWindow is how long after its scheduled time a timer may still fire.
	GraceWindow time.Duration

	// Tolerance is the half-width of the calendar matching window.
	Tolerance time.Duration

	// Clock is the time source; nil means the system clock.
	Clock Clock

	// Recorder distributes trigger records; nil disables them.
	Recorder *events.Recorder

	// Metrics receives energy telemetry; nil disables it.
	Metrics EnergyWriter

	// Logger is used for tick diagnostics; nil means the default logger.
	Logger *logging.Logger
}

// Scheduler drives the periodic evaluation of every owner's timers,
// calendar actions, and alerts.
//
// Each owner is processed under its registry lock in the fixed order
// timers, calendar, alerts, so state a timer just changed is visible to
// same-tick alert evaluation. One owner's panic or persistence failure
// never blocks another owner, and nothing from a tick is ever raised to
// a caller.
type Scheduler struct {
	registry *owner.Registry
	opts     Options
	logger   *logging.Logger
	clock    Clock

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Scheduler over the owner registry.
func New(registry *owner.Registry, opts Options) *Scheduler {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.GraceWindow <= 0 {
		opts.GraceWindow = timer.DefaultGraceWindow
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = time.Minute
	}
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Scheduler{
		registry: registry,
		opts:     opts,
		logger:   logger,
		clock:    clock,
	}
}

// Start launches the background tick loop. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx)

	s.logger.Info("scheduler started", "interval", s.opts.TickInterval.String())
}

// Stop halts the loop, letting an in-flight tick finish first.
// Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
	s.logger.Info("scheduler stopped")
}

// run is the tick loop. Cancellation is only observed between ticks, so
// an in-flight tick always completes.
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ForceTick(s.clock.Now())
		}
	}
}

// ForceTick evaluates every owner at the given instant. It is the same
// path the background loop runs, exposed for operators and tests.
func (s *Scheduler) ForceTick(now time.Time) {
	ctx := context.Background()

	ids, err := s.registry.IDs(ctx)
	if err != nil {
		s.logger.Error("tick: listing owners", "error", err)
		return
	}

	for _, id := range ids {
		s.tickOwner(ctx, id, now)
	}
}

// tickOwner evaluates one owner under its mutation lock. Panics are
// contained here so one owner's fault cannot poison the rest of the tick.
func (s *Scheduler) tickOwner(ctx context.Context, ownerID string, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tick: owner evaluation panicked",
				"owner_id", ownerID,
				"panic", fmt.Sprintf("%v", r))
		}
	}()

	var out tickOutcome
	err := s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		out = s.evaluate(rec, now)
		return out.changed(), nil
	})
	if err != nil {
		// Save failures are already logged by the registry; the
		// in-memory state kept the evaluation results.
		s.logger.Warn("tick: owner update", "owner_id", ownerID, "error", err)
	}

	s.report(ownerID, out, now)
}

// tickOutcome collects everything one owner's evaluation produced.
type tickOutcome struct {
	firings  []timer.Firing
	applied  []appliedAction
	triggers []alert.Trigger
	folds    []energyFold
}

// appliedAction is one calendar action the tick carried out.
type appliedAction struct {
	event   string
	device  device.Key
	action  device.Action
	changed bool
}

// energyFold is one ON session closed by a tick-driven OFF transition.
type energyFold struct {
	device        device.Key
	sessionKWh    float64
	cumulativeKWh float64
}

func (o tickOutcome) changed() bool {
	return len(o.firings) > 0 || len(o.applied) > 0 || len(o.triggers) > 0
}

// evaluate runs the three evaluation passes over one owner record.
// Order is fixed: timers, then calendar, then alerts, so a transition a
// timer just made is visible to this tick's alert conditions.
func (s *Scheduler) evaluate(rec *owner.Record, now time.Time) tickOutcome {
	var out tickOutcome

	// Pass 1: timers.
	for _, d := range rec.Devices {
		before := d.CumulativeEnergyKWh
		firings := timer.Evaluate(d, now, s.opts.GraceWindow)
		out.firings = append(out.firings, firings...)
		out.folds = appendFold(out.folds, d, before)
	}

	// Pass 2: calendar actions. Markers commit only after a successful
	// application; a missing device leaves the action eligible for the
	// rest of its window.
	for _, due := range calendar.FindDue(rec.Events, now, s.opts.Tolerance) {
		action := due.Event.Actions[due.ActionIndex]
		d := rec.Device(action.Device)
		if d == nil {
			continue
		}
		before := d.CumulativeEnergyKWh
		changed := d.Apply(action.Action, now)
		calendar.MarkFired(due.Event, due.ActionIndex, now)
		out.folds = appendFold(out.folds, d, before)
		out.applied = append(out.applied, appliedAction{
			event:   due.Event.Title,
			device:  action.Device,
			action:  action.Action,
			changed: changed,
		})
	}

	// Pass 3: alerts, time before energy.
	lookup := rec.Lookup()
	out.triggers = append(out.triggers, alert.EvaluateTime(&rec.Alerts, lookup, now)...)
	out.triggers = append(out.triggers, alert.EvaluateEnergy(&rec.Alerts, lookup, now)...)

	return out
}

// appendFold records an energy fold when the device's cumulative total
// moved during an evaluation step.
func appendFold(folds []energyFold, d *device.Device, before float64) []energyFold {
	if d.CumulativeEnergyKWh <= before {
		return folds
	}
	return append(folds, energyFold{
		device:        d.Key,
		sessionKWh:    d.CumulativeEnergyKWh - before,
		cumulativeKWh: d.CumulativeEnergyKWh,
	})
}

// report distributes the tick's trigger records and telemetry. It runs
// outside the owner lock.
func (s *Scheduler) report(ownerID string, out tickOutcome, now time.Time) {
	for _, f := range out.firings {
		rec := events.Record{
			OwnerID: ownerID,
			Device:  f.Device.String(),
			Action:  string(f.Action),
			At:      now,
		}
		if f.Outcome == timer.OutcomeFired {
			rec.Kind = events.KindTimerFired
			rec.Message = fmt.Sprintf("timer fired: %s turned %s (scheduled %s)",
				f.Device, f.Action, f.ScheduledAt.Format(time.RFC3339))
			if !f.Changed {
				rec.Message = fmt.Sprintf("timer fired: %s already %s (scheduled %s)",
					f.Device, f.Action, f.ScheduledAt.Format(time.RFC3339))
			}
		} else {
			rec.Kind = events.KindTimerExpired
			rec.Message = fmt.Sprintf("timer expired unfired: %s %s was scheduled for %s",
				f.Device, f.Action, f.ScheduledAt.Format(time.RFC3339))
		}
		s.emit(rec)
	}

	for _, a := range out.applied {
		s.emit(events.Record{
			OwnerID: ownerID,
			Kind:    events.KindCalendarFired,
			Device:  a.device.String(),
			Action:  string(a.action),
			Message: fmt.Sprintf("calendar %q: %s turned %s", a.event, a.device, a.action),
			At:      now,
		})
	}

	for _, t := range out.triggers {
		s.emit(events.Record{
			OwnerID: ownerID,
			Kind:    events.KindAlertTriggered,
			Device:  t.Device.String(),
			Message: t.Describe(),
			At:      now,
		})
		if t.Kind == alert.KindEnergy && s.opts.Metrics != nil {
			s.opts.Metrics.WriteAlertTrigger(ownerID, t.Device.String(), t.Name, t.ValueKWh, now)
		}
	}

	if s.opts.Metrics != nil {
		for _, f := range out.folds {
			s.opts.Metrics.WriteEnergyFold(ownerID, f.device.String(), f.sessionKWh, f.cumulativeKWh, now)
		}
	}
}

// emit distributes one trigger record when a recorder is wired.
func (s *Scheduler) emit(rec events.Record) {
	if s.opts.Recorder != nil {
		s.opts.Recorder.Emit(rec)
	}
}
