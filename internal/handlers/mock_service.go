package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"temperature_monitor/internal/logger"
	"temperature_monitor/internal/models"
	"temperature_monitor/internal/service"
)

// ---- Service Mocks ----

type mockSensors struct {
	probes []models.Probe

	renameErr error
	deleteErr error

	lastRenameID   string
	lastRenameName string
	lastDeleteID   string
	renameCalls    int
	deleteCalls    int
}

func (m *mockSensors) List() []models.Probe { return m.probes }
func (m *mockSensors) Rename(_ context.Context, id, name string) error {
	m.renameCalls++
	m.lastRenameID = id
	m.lastRenameName = name
	return m.renameErr
}
func (m *mockSensors) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	m.lastDeleteID = id
	return m.deleteErr
}

type mockSessions struct {
	startFilename string
	startErr      error
	stopFilename  string
	stopErr       error
	status        service.SessionStatus

	startCalls int
	stopCalls  int
}

func (m *mockSessions) Start(ctx context.Context) (string, error) {
	m.startCalls++
	return m.startFilename, m.startErr
}
func (m *mockSessions) Stop(ctx context.Context) (string, error) {
	m.stopCalls++
	return m.stopFilename, m.stopErr
}
func (m *mockSessions) Status() service.SessionStatus { return m.status }
func (m *mockSessions) RunIntervalAppend(context.Context, time.Duration) {}

type mockHeater struct {
	status   models.ControllerStatus
	statusOK bool

	setTargetErr error
	resetErr     error

	lastTarget     float64
	setTargetCalls int
	resetCalls     int
}

func (m *mockHeater) Status() (models.ControllerStatus, bool) { return m.status, m.statusOK }
func (m *mockHeater) SetTarget(_ context.Context, targetC float64) error {
	m.setTargetCalls++
	m.lastTarget = targetC
	return m.setTargetErr
}
func (m *mockHeater) ResetSafety(context.Context) error {
	m.resetCalls++
	return m.resetErr
}

type mockDiagnostics struct {
	msgs    []models.Diagnostic
	msgsErr error
	link    service.LinkState

	rescanErr error
	mockErr   error

	lastSeverity string
	lastEnabled  bool
	clearCalls   int
	rescanCalls  int
	mockCalls    int
}

func (m *mockDiagnostics) Messages(severity string) ([]models.Diagnostic, error) {
	m.lastSeverity = severity
	return m.msgs, m.msgsErr
}
func (m *mockDiagnostics) Clear() { m.clearCalls++ }
func (m *mockDiagnostics) RequestRescan(context.Context) error {
	m.rescanCalls++
	return m.rescanErr
}
func (m *mockDiagnostics) SetMockMode(_ context.Context, enabled bool) error {
	m.mockCalls++
	m.lastEnabled = enabled
	return m.mockErr
}
func (m *mockDiagnostics) LinkState() service.LinkState { return m.link }

type mockEventLog struct {
	events []models.SystemEvent
	err    error

	lastFilter service.LogFilter
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.SystemEvent, error) {
	m.lastFilter = f
	return m.events, m.err
}

// newTestRouter builds a full router around the given (partially mocked) service.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, logger.New("error"))
	return h.InitRoutes()
}
