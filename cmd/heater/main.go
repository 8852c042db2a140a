package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"temperature_monitor/internal/heater"
	"temperature_monitor/internal/hw"
	"temperature_monitor/internal/logger"
	"temperature_monitor/internal/statefile"
)

const simAmbientC = 20.0

func main() {
	if err := loadConfig(); err != nil {
		logger.New(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.New(viper.GetString("logging.level"))

	thermistor := heater.DefaultThermistor()

	ctrl, err := newController()
	if err != nil {
		log.Fatalw("failed to build controller", "err", err)
	}

	adc, relay := newHardware(thermistor, log)

	loop := heater.NewLoop(heater.LoopDeps{
		ADC:        adc,
		Relay:      relay,
		Thermistor: thermistor,
		Controller: ctrl,
		Status:     statefile.NewStatusFile(viper.GetString("state.status_path")),
		Target:     statefile.NewTargetFile(viper.GetString("state.target_path")),
		Log:        log,
	}, viper.GetDuration("heater.sample_interval"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("heater control loop starting",
		"target", ctrl.Target(),
		"strategy", viper.GetString("heater.strategy"),
		"simulate", viper.GetBool("heater.simulate"),
	)
	loop.Run(ctx)
	log.Infow("heater control loop stopped")
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetDefault("state.status_path", "state/heater_status.json")
	viper.SetDefault("state.target_path", "state/heater_target.json")
	viper.SetDefault("heater.sample_interval", time.Second)
	viper.SetDefault("heater.target_temp", 30.0)
	viper.SetDefault("heater.strategy", "hysteresis")
	viper.SetDefault("heater.simulate", true)

	return viper.ReadInConfig()
}

// newController builds the control law named in config around the default
// safety bounds.
func newController() (*heater.Controller, error) {
	var strategy heater.Strategy
	switch viper.GetString("heater.strategy") {
	case "pid":
		strategy = heater.NewPID(heater.DefaultKp, heater.DefaultKi, heater.DefaultKd, heater.DefaultDeadband)
	default:
		strategy = heater.NewHysteresis(heater.DefaultDeadband)
	}
	return heater.NewController(strategy, heater.DefaultConfig(), viper.GetFloat64("heater.target_temp"))
}

// newHardware returns the ADC and relay. The real SPI/GPIO bindings are
// board-specific and linked in deployment builds; everywhere else the
// simulated plant stands in.
func newHardware(thermistor heater.ThermistorConfig, log *logger.Logger) (hw.ADC, hw.Relay) {
	if !viper.GetBool("heater.simulate") {
		log.Fatalw("real hardware bindings are not linked into this build; set heater.simulate: true")
	}
	plant := hw.NewSimPlant(simAmbientC)
	return hw.NewSimADC(plant, thermistor.RawFromTemperature), hw.NewSimRelay(plant)
}
