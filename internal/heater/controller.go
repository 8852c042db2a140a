package heater

import (
	"fmt"
	"sync"
	"time"
)

// Control tuning for the deployed heater.
const (
	DefaultDeadband       = 0.5  // °C above target before the relay drops
	DefaultMaxTemperature = 80.0 // overheat shutoff
	DefaultMinTemperature = -10.0

	DefaultKp = 0.1106
	DefaultKi = 0.021
	DefaultKd = 0.2768

	integralMin = -10.0
	integralMax = 10.0
	pidOutMin   = 0.0
	pidOutMax   = 1.0
)

// Fault codes published through the shared-state channel.
const (
	FaultOverheat    = "OVERHEAT"
	FaultSensorFault = "SENSOR_FAULT" // reading below the plausible range
	FaultNoReading   = "NO_READING"   // sensor transiently unreadable
)

// Strategy decides the relay state each sample. Implementations keep their
// own internal state; Reset clears accumulated terms after a setpoint change.
type Strategy interface {
	Update(measuredC, targetC float64, now time.Time) bool
	Reset()
	Output() float64 // bounded [0,1] control effort
}

// Hysteresis is the single-sided deadband law: start heating below target,
// stop only once measured reaches target+deadband. The asymmetry keeps the
// relay from chattering exactly at the setpoint.
type Hysteresis struct {
	deadband float64
	heating  bool
}

func NewHysteresis(deadband float64) *Hysteresis {
	return &Hysteresis{deadband: deadband}
}

func (h *Hysteresis) Update(measuredC, targetC float64, _ time.Time) bool {
	if h.heating {
		if measuredC >= targetC+h.deadband {
			h.heating = false
		}
	} else {
		if measuredC < targetC {
			h.heating = true
		}
	}
	return h.heating
}

func (h *Hysteresis) Reset() {}

func (h *Hysteresis) Output() float64 {
	if h.heating {
		return 1
	}
	return 0
}

// PID computes a bounded [0,1] control effort with a clamped integral term.
// The effort is published for observability, but the relay decision still
// passes through the same deadband check as Hysteresis so the relay never
// cycles faster than the deadband allows.
type PID struct {
	kp, ki, kd float64
	deadband   float64

	integral  float64
	lastError float64
	lastTime  time.Time
	output    float64
	heating   bool
}

func NewPID(kp, ki, kd, deadband float64) *PID {
	return &PID{kp: kp, ki: ki, kd: kd, deadband: deadband}
}

func (p *PID) Update(measuredC, targetC float64, now time.Time) bool {
	var dt float64
	if !p.lastTime.IsZero() {
		dt = now.Sub(p.lastTime).Seconds()
	}

	err := targetC - measuredC
	pTerm := p.kp * err

	p.integral += err * dt
	p.integral = clamp(p.integral, integralMin, integralMax)
	iTerm := p.ki * p.integral

	var dTerm float64
	if dt > 0 {
		dTerm = p.kd * (err - p.lastError) / dt
	}

	p.output = clamp(pTerm+iTerm+dTerm, pidOutMin, pidOutMax)

	if p.heating {
		if measuredC >= targetC+p.deadband {
			p.heating = false
		}
	} else {
		if measuredC < targetC {
			p.heating = true
		}
	}

	p.lastError = err
	p.lastTime = now
	return p.heating
}

// Reset clears the integral so a setpoint jump does not kick the output.
func (p *PID) Reset() { p.integral = 0 }

func (p *PID) Output() float64 { return p.output }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Config bounds the controller.
type Config struct {
	Deadband       float64
	MaxTemperature float64
	MinTemperature float64
}

func DefaultConfig() Config {
	return Config{
		Deadband:       DefaultDeadband,
		MaxTemperature: DefaultMaxTemperature,
		MinTemperature: DefaultMinTemperature,
	}
}

// Decision is the outcome of one control cycle.
type Decision struct {
	Relay      bool
	SafetyStop bool
	Fault      string
	Output     float64
}

// Controller owns the relay decision. Safety interlocks run before the
// control law and override it unconditionally; nothing else in the process
// mutates the relay state.
type Controller struct {
	mu         sync.Mutex
	strategy   Strategy
	cfg        Config
	target     float64
	safetyStop bool
}

// NewController validates the initial target against the safe range.
func NewController(strategy Strategy, cfg Config, targetC float64) (*Controller, error) {
	c := &Controller{strategy: strategy, cfg: cfg}
	if err := c.SetTarget(targetC); err != nil {
		return nil, err
	}
	return c, nil
}

// Step runs the interlocks and, when they pass, the control law.
// A nil measurement is a fail-safe: relay off, state still published.
func (c *Controller) Step(measuredC *float64, now time.Time) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.safetyStop {
		return Decision{SafetyStop: true, Fault: FaultOverheat}
	}
	if measuredC == nil {
		return Decision{Fault: FaultNoReading}
	}
	m := *measuredC

	if m > c.cfg.MaxTemperature {
		// Terminal until an operator acknowledges through ResetSafety.
		c.safetyStop = true
		return Decision{SafetyStop: true, Fault: FaultOverheat}
	}
	if m < c.cfg.MinTemperature {
		return Decision{Fault: FaultSensorFault}
	}

	relay := c.strategy.Update(m, c.target, now)
	return Decision{Relay: relay, Output: c.strategy.Output()}
}

// SetTarget applies a validated new setpoint. Out-of-range values are
// rejected with a descriptive error and leave state unchanged. Accepted
// changes reset the strategy's accumulated terms.
func (c *Controller) SetTarget(targetC float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if targetC < 0 || targetC > c.cfg.MaxTemperature {
		return fmt.Errorf("target %.2f°C outside safe range [0, %.2f]", targetC, c.cfg.MaxTemperature)
	}
	c.target = targetC
	c.strategy.Reset()
	return nil
}

// Target returns the current setpoint.
func (c *Controller) Target() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// SafetyStopped reports whether the overheat latch is engaged.
func (c *Controller) SafetyStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.safetyStop
}

// ResetSafety clears the overheat latch after operator acknowledgment.
func (c *Controller) ResetSafety() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.safetyStop = false
	c.strategy.Reset()
}
