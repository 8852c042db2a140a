package hw

import (
	"sync"
	"time"
)

// Simulated plant dynamics, °C per second.
const (
	simHeatRate = 3.0
	simCoolRate = 0.5

	simHotLimitC = 120.0 // what the element would reach with the relay stuck on
)

// SimPlant is a first-order thermal model of the heated vessel: it ramps
// toward the element's hot limit while the relay is closed and drifts back
// toward ambient otherwise. Time advances with the wall clock so the sim
// behaves the same under any sample interval.
type SimPlant struct {
	mu       sync.Mutex
	tempC    float64
	ambientC float64
	relayOn  bool
	last     time.Time
	now      func() time.Time
}

func NewSimPlant(ambientC float64) *SimPlant {
	p := &SimPlant{ambientC: ambientC, tempC: ambientC, now: time.Now}
	p.last = p.now()
	return p
}

// Temperature advances the model and returns the current plant temperature.
func (p *SimPlant) Temperature() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.step()
	return p.tempC
}

func (p *SimPlant) setRelay(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.step() // account for time spent in the previous relay state
	p.relayOn = on
}

// step integrates the elapsed interval. Caller holds the lock.
func (p *SimPlant) step() {
	now := p.now()
	elapsed := now.Sub(p.last).Seconds()
	p.last = now
	if elapsed <= 0 {
		return
	}

	if p.relayOn {
		p.tempC += simHeatRate * elapsed
		if p.tempC > simHotLimitC {
			p.tempC = simHotLimitC
		}
	} else if p.tempC > p.ambientC {
		p.tempC -= simCoolRate * elapsed
		if p.tempC < p.ambientC {
			p.tempC = p.ambientC
		}
	}
}

// SimRelay couples the relay output back into the plant.
type SimRelay struct {
	mu    sync.Mutex
	plant *SimPlant
	state bool
}

func NewSimRelay(plant *SimPlant) *SimRelay {
	return &SimRelay{plant: plant}
}

func (r *SimRelay) Set(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = on
	r.plant.setRelay(on)
	return nil
}

func (r *SimRelay) State() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SimADC reports the plant temperature encoded as the raw count the real
// converter would produce. Encode is supplied by the thermistor model so this
// package stays free of conversion math.
type SimADC struct {
	plant  *SimPlant
	encode func(tempC float64) (uint16, error)
}

func NewSimADC(plant *SimPlant, encode func(tempC float64) (uint16, error)) *SimADC {
	return &SimADC{plant: plant, encode: encode}
}

func (a *SimADC) ReadChannel(_ int) (uint16, error) {
	return a.encode(a.plant.Temperature())
}
