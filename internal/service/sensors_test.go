package service

import (
	"context"
	"errors"
	"testing"

	"temperature_monitor/internal/models"
	"temperature_monitor/internal/registry"
)

func TestSensorsRename(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Upsert("28AABBCCDD112233", 23.5)
	rec, repo := testRecorder()
	svc := NewSensorsService(reg, rec)

	if err := svc.Rename(context.Background(), "28AABBCCDD112233", " Kettle "); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	p, _ := reg.Get("28AABBCCDD112233")
	if p.Name != "Kettle" {
		t.Errorf("name = %q, want trimmed %q", p.Name, "Kettle")
	}
	if types := repo.types(); len(types) != 1 || types[0] != models.EventProbeRenamed {
		t.Errorf("events = %v", repo.types())
	}
}

func TestSensorsRenameRejectsEmptyName(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Upsert("28AABBCCDD112233", 23.5)
	rec, repo := testRecorder()
	svc := NewSensorsService(reg, rec)

	if err := svc.Rename(context.Background(), "28AABBCCDD112233", "   "); err == nil {
		t.Fatal("blank name accepted")
	}
	if len(repo.types()) != 0 {
		t.Errorf("event recorded for rejected rename: %v", repo.types())
	}
}

func TestSensorsDeleteUnknown(t *testing.T) {
	t.Parallel()

	rec, repo := testRecorder()
	svc := NewSensorsService(registry.New(), rec)

	if err := svc.Delete(context.Background(), "DEADBEEF"); !errors.Is(err, registry.ErrUnknownSensor) {
		t.Fatalf("err = %v, want ErrUnknownSensor", err)
	}
	if len(repo.types()) != 0 {
		t.Errorf("event recorded for failed delete: %v", repo.types())
	}
}

func TestSensorsDelete(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Upsert("28AABBCCDD112233", 23.5)
	rec, repo := testRecorder()
	svc := NewSensorsService(reg, rec)

	if err := svc.Delete(context.Background(), "28AABBCCDD112233"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(svc.List()) != 0 {
		t.Error("probe still listed after delete")
	}
	if types := repo.types(); len(types) != 1 || types[0] != models.EventProbeDeleted {
		t.Errorf("events = %v", repo.types())
	}
}
