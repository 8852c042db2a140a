package service

import (
	"context"
	"fmt"

	"temperature_monitor/internal/heater"
	"temperature_monitor/internal/models"
	"temperature_monitor/internal/statefile"
)

type HeaterService struct {
	status *statefile.StatusFile
	target *statefile.TargetFile
	rec    *Recorder
}

func NewHeaterService(status *statefile.StatusFile, target *statefile.TargetFile, rec *Recorder) *HeaterService {
	return &HeaterService{status: status, target: target, rec: rec}
}

// Status returns the controller's last published cycle. ok is false until
// the controller process has written at least once.
func (s *HeaterService) Status() (models.ControllerStatus, bool) {
	return s.status.Read()
}

// SetTarget validates and publishes a new setpoint. The same range check
// runs again inside the controller process; rejecting here just gives the
// operator an immediate answer.
func (s *HeaterService) SetTarget(_ context.Context, targetC float64) error {
	if targetC < 0 || targetC > heater.DefaultMaxTemperature {
		return fmt.Errorf("target %.2f°C outside safe range [0, %.2f]", targetC, heater.DefaultMaxTemperature)
	}
	if err := s.target.Write(models.TargetRequest{TargetTemp: &targetC}); err != nil {
		return fmt.Errorf("publish target: %w", err)
	}
	s.rec.Record(models.EventTargetSet, fmt.Sprintf("target set to %.2f°C", targetC),
		map[string]any{"target_temp": targetC})
	return nil
}

// ResetSafety publishes a safety-stop acknowledgment, preserving the
// current setpoint in the document.
func (s *HeaterService) ResetSafety(_ context.Context) error {
	req := models.TargetRequest{Reset: true}
	if cur, ok := s.target.Read(); ok {
		req.TargetTemp = cur.TargetTemp
	}
	if err := s.target.Write(req); err != nil {
		return fmt.Errorf("publish safety reset: %w", err)
	}
	s.rec.Record(models.EventSafetyReset, "safety stop acknowledged", nil)
	return nil
}
