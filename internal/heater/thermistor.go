package heater

import (
	"errors"
	"math"
)

// ErrSensorRange marks an ADC voltage outside the usable divider range,
// meaning an open or shorted thermistor circuit.
var ErrSensorRange = errors.New("thermistor voltage out of range")

// ThermistorConfig describes the NTC thermistor and its divider circuit.
// The beta model converts divider voltage to temperature; Inverted means the
// thermistor sits on the supply side of the divider.
type ThermistorConfig struct {
	SupplyVoltage   float64
	ADCReference    float64
	Beta            float64 // Kelvin
	RefResistance   float64 // ohms at RefTempC
	RefTempC        float64
	DividerResistor float64 // fixed resistor, ohms
	Inverted        bool
	ADCMax          uint16 // full-scale raw count, 4095 for 12-bit
}

// DefaultThermistor matches the deployed hardware: Vishay NTCALUG01A103J
// (beta 3984 K) behind a 2.2 kOhm inverted divider on an MCP3204.
func DefaultThermistor() ThermistorConfig {
	return ThermistorConfig{
		SupplyVoltage:   3.3,
		ADCReference:    3.3,
		Beta:            3984,
		RefResistance:   11450,
		RefTempC:        21.60,
		DividerResistor: 2200,
		Inverted:        true,
		ADCMax:          4095,
	}
}

const kelvinOffset = 273.15

// TemperatureFromRaw converts a raw ADC count to degrees Celsius.
func (c ThermistorConfig) TemperatureFromRaw(raw uint16) (float64, error) {
	voltage := float64(raw) / float64(c.ADCMax) * c.ADCReference
	return c.TemperatureFromVoltage(voltage)
}

// TemperatureFromVoltage applies the divider equation and the beta model.
func (c ThermistorConfig) TemperatureFromVoltage(voltage float64) (float64, error) {
	if voltage <= 0 || voltage >= c.SupplyVoltage {
		return 0, ErrSensorRange
	}

	var resistance float64
	if c.Inverted {
		resistance = c.DividerResistor * (c.SupplyVoltage - voltage) / voltage
	} else {
		resistance = c.DividerResistor * voltage / (c.SupplyVoltage - voltage)
	}
	if resistance <= 0 {
		return 0, ErrSensorRange
	}

	refKelvin := c.RefTempC + kelvinOffset
	kelvin := 1.0 / (1.0/refKelvin + math.Log(resistance/c.RefResistance)/c.Beta)
	return kelvin - kelvinOffset, nil
}

// RawFromTemperature inverts the conversion; the simulated ADC uses it to
// encode a plant temperature as the count the hardware would report.
func (c ThermistorConfig) RawFromTemperature(tempC float64) (uint16, error) {
	kelvin := tempC + kelvinOffset
	refKelvin := c.RefTempC + kelvinOffset
	resistance := c.RefResistance * math.Exp(c.Beta*(1.0/kelvin-1.0/refKelvin))

	var voltage float64
	if c.Inverted {
		voltage = c.SupplyVoltage * c.DividerResistor / (c.DividerResistor + resistance)
	} else {
		voltage = c.SupplyVoltage * resistance / (c.DividerResistor + resistance)
	}
	if voltage <= 0 || voltage >= c.SupplyVoltage {
		return 0, ErrSensorRange
	}

	raw := math.Round(voltage / c.ADCReference * float64(c.ADCMax))
	if raw < 0 {
		raw = 0
	}
	if raw > float64(c.ADCMax) {
		raw = float64(c.ADCMax)
	}
	return uint16(raw), nil
}
