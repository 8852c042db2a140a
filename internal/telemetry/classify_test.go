package telemetry

import (
	"math"
	"strings"
	"testing"
)

func TestClassifyToken_ValidReadings(t *testing.T) {
	cases := []struct {
		tok    string
		wantID string
		wantT  float64
	}{
		{"28AABBCCDD112233:23.40", "28AABBCCDD112233", 23.40},
		{"28ff64191601:-5.5", "28ff64191601", -5.5},
		{"ABCDEF01 19.25", "ABCDEF01", 19.25},
		{"  28AABBCC01 : 0.0 ", "28AABBCC01", 0.0},
	}
	for _, c := range cases {
		m := ClassifyToken(strings.TrimSpace(c.tok))
		if m.Kind != KindReading {
			t.Fatalf("%q: kind = %v, want reading (%+v)", c.tok, m.Kind, m)
		}
		if m.SensorID != c.wantID {
			t.Errorf("%q: id = %q, want %q", c.tok, m.SensorID, c.wantID)
		}
		if math.Abs(m.TemperatureC-c.wantT) > 1e-9 {
			t.Errorf("%q: temp = %v, want %v", c.tok, m.TemperatureC, c.wantT)
		}
	}
}

func TestClassifyToken_ShortOrNonHexIDNeverReading(t *testing.T) {
	cases := []string{
		"28AB:23.4",               // 4 chars, too short
		"28001122334455GG:21.0",   // G is not hex
		"sensor-1:20.0",           // non-hex
		"28AABBCC:not_a_number",   // bad value
		"28AABBCCDD112233:NaN",    // not finite
		"28AABBCCDD112233:+Inf",   // not finite
	}
	for _, tok := range cases {
		m := ClassifyToken(tok)
		if m.Kind == KindReading {
			t.Fatalf("%q: classified as reading", tok)
		}
		if m.Kind != KindDiagnostic || m.Severity != SeverityWarning {
			t.Errorf("%q: got kind=%v severity=%q, want warning diagnostic", tok, m.Kind, m.Severity)
		}
	}
}

func TestClassifyToken_KeywordPriority(t *testing.T) {
	cases := []struct {
		tok      string
		severity string
	}{
		{"[ERROR] CRC_FAILED for sensor 1", SeverityError},
		{"[ERROR] No temperature sensors found on OneWire bus!", SeverityError}, // ERROR outranks FOUND
		{"[WARN] Maximum sensor limit reached", SeverityWarning},
		{"SENSOR_2_OFFLINE", SeverityWarning},
		{"Invalid_conversion", SeverityWarning},
		{"RESCAN_COMPLETE", SeverityInfo},
		{"[INFO] Temperature Monitoring System Started", SeverityInfo},
	}
	for _, c := range cases {
		m := ClassifyToken(c.tok)
		if m.Kind != KindDiagnostic || m.Severity != c.severity {
			t.Errorf("%q: got kind=%v severity=%q, want %s diagnostic", c.tok, m.Kind, m.Severity, c.severity)
		}
		if m.Text != c.tok {
			t.Errorf("%q: text = %q, want original token", c.tok, m.Text)
		}
	}
}

func TestClassifyToken_Unrecognized(t *testing.T) {
	for _, tok := range []string{"hello", "12345678", "---"} {
		if m := ClassifyToken(tok); m.Kind != KindUnrecognized {
			t.Errorf("%q: kind = %v, want unrecognized", tok, m.Kind)
		}
	}
}

// The exclusion keywords only guard the reading path; a hex id cannot contain
// them, so every well-formed reading still classifies as one.
func TestClassifyLine_MixedLine(t *testing.T) {
	msgs := ClassifyLine("28AABBCCDD112233:23.40,28001122334455GG:bad")
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Kind != KindReading || msgs[0].SensorID != "28AABBCCDD112233" {
		t.Errorf("first token: %+v, want reading for 28AABBCCDD112233", msgs[0])
	}
	if math.Abs(msgs[0].TemperatureC-23.40) > 1e-9 {
		t.Errorf("first token temp = %v, want 23.40", msgs[0].TemperatureC)
	}
	if msgs[1].Kind != KindDiagnostic || msgs[1].Severity != SeverityWarning {
		t.Errorf("second token: %+v, want warning diagnostic", msgs[1])
	}
}

func TestClassifyLine_SkipsEmptyTokens(t *testing.T) {
	msgs := ClassifyLine("28AABBCCDD112233:23.40,,  ,28DEF456DEF456DE:24.12")
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	for _, m := range msgs {
		if m.Kind != KindReading {
			t.Errorf("got %+v, want reading", m)
		}
	}
}
