package heater

import (
	"context"
	"time"

	"temperature_monitor/internal/hw"
	"temperature_monitor/internal/logger"
	"temperature_monitor/internal/models"
)

const (
	DefaultSampleInterval = 1 * time.Second

	adcChannel = 0
)

// StatusWriter publishes the controller's cycle projection.
type StatusWriter interface {
	Write(models.ControllerStatus) error
}

// TargetReader polls the operator's latest request.
type TargetReader interface {
	Read() (models.TargetRequest, bool)
}

// LoopDeps are the collaborators of the control loop.
type LoopDeps struct {
	ADC        hw.ADC
	Relay      hw.Relay
	Thermistor ThermistorConfig
	Controller *Controller
	Status     StatusWriter
	Target     TargetReader
	Log        *logger.Logger
}

// Loop runs the fixed-cadence sample cycle: poll the target document, read
// and convert the thermistor, step the controller, drive the relay and
// publish status. A failed ADC read or conversion yields a nil measurement
// for the cycle rather than stopping the loop.
type Loop struct {
	deps     LoopDeps
	interval time.Duration
	now      func() time.Time

	lastReset bool // reset flag seen on the previous poll
}

func NewLoop(deps LoopDeps, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Loop{deps: deps, interval: interval, now: time.Now}
}

// Run blocks until ctx is cancelled. The relay is forced off on exit.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.cycle()
	for {
		select {
		case <-ctx.Done():
			if err := l.deps.Relay.Set(false); err != nil {
				l.deps.Log.Errorw("failed to release relay on shutdown", "error", err)
			}
			return
		case <-ticker.C:
			l.cycle()
		}
	}
}

func (l *Loop) cycle() {
	l.applyTarget()

	measured := l.measure()
	dec := l.deps.Controller.Step(measured, l.now())

	if err := l.deps.Relay.Set(dec.Relay); err != nil {
		l.deps.Log.Errorw("relay actuation failed", "error", err, "requested", dec.Relay)
	}
	l.publish(measured, dec)
}

// applyTarget folds the latest operator request into the controller. The
// document is a desired state, not a command stream: a value equal to the
// current target is a no-op, and the reset flag acts once on its rising
// edge so a stale flag cannot silently acknowledge a later overheat.
func (l *Loop) applyTarget() {
	req, ok := l.deps.Target.Read()
	if !ok {
		return
	}
	if req.TargetTemp != nil && *req.TargetTemp != l.deps.Controller.Target() {
		if err := l.deps.Controller.SetTarget(*req.TargetTemp); err != nil {
			l.deps.Log.Warnw("rejected target request", "target", *req.TargetTemp, "error", err)
		} else {
			l.deps.Log.Infow("target updated", "target", *req.TargetTemp)
		}
	}
	if req.Reset && !l.lastReset && l.deps.Controller.SafetyStopped() {
		l.deps.Controller.ResetSafety()
		l.deps.Log.Infow("safety stop cleared by operator")
	}
	l.lastReset = req.Reset
}

func (l *Loop) measure() *float64 {
	raw, err := l.deps.ADC.ReadChannel(adcChannel)
	if err != nil {
		l.deps.Log.Errorw("adc read failed", "channel", adcChannel, "error", err)
		return nil
	}
	tempC, err := l.deps.Thermistor.TemperatureFromRaw(raw)
	if err != nil {
		l.deps.Log.Warnw("thermistor conversion failed", "raw", raw, "error", err)
		return nil
	}
	return &tempC
}

func (l *Loop) publish(measured *float64, dec Decision) {
	st := models.ControllerStatus{
		Timestamp:    l.now().UTC(),
		TemperatureC: measured,
		RelayState:   dec.Relay,
		TargetTemp:   l.deps.Controller.Target(),
		SafetyStop:   dec.SafetyStop,
		Fault:        dec.Fault,
		PIDOutput:    dec.Output,
	}
	if err := l.deps.Status.Write(st); err != nil {
		l.deps.Log.Errorw("failed to publish controller status", "error", err)
	}
}
