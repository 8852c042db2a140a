package service

import (
	"context"
	"fmt"
	"strings"

	"temperature_monitor/internal/models"
	"temperature_monitor/internal/registry"
)

type SensorsService struct {
	reg *registry.Registry
	rec *Recorder
}

func NewSensorsService(reg *registry.Registry, rec *Recorder) *SensorsService {
	return &SensorsService{reg: reg, rec: rec}
}

func (s *SensorsService) List() []models.Probe {
	return s.reg.Snapshot()
}

// Rename updates the operator-visible name. The name is trimmed; an empty
// result is rejected so a probe never loses its label entirely.
func (s *SensorsService) Rename(_ context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("sensor name must not be empty")
	}
	prev, ok := s.reg.Get(id)
	if !ok {
		return registry.ErrUnknownSensor
	}
	if err := s.reg.Rename(id, name); err != nil {
		return err
	}
	s.rec.Record(models.EventProbeRenamed, fmt.Sprintf("probe %s renamed to %q", id, name),
		map[string]any{"sensor_id": id, "old_name": prev.Name, "new_name": name})
	return nil
}

func (s *SensorsService) Delete(_ context.Context, id string) error {
	prev, ok := s.reg.Get(id)
	if !ok {
		return registry.ErrUnknownSensor
	}
	if err := s.reg.Delete(id); err != nil {
		return err
	}
	s.rec.Record(models.EventProbeDeleted, fmt.Sprintf("probe %s (%s) deleted", id, prev.Name),
		map[string]any{"sensor_id": id, "name": prev.Name})
	return nil
}
