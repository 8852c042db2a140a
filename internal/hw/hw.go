// Package hw defines the register-read and switch primitives the control
// loop drives. Real SPI/GPIO bindings live outside this repository; the sim
// implementations here stand in for them so the whole system runs on a
// development machine.
package hw

// ADC reads one raw sample from a converter channel.
type ADC interface {
	ReadChannel(channel int) (uint16, error)
}

// Relay switches the heater output.
type Relay interface {
	Set(on bool) error
	State() bool
}
