package telemetry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags a classified token. The set is closed: every call site is
// expected to switch over all four values.
type Kind int

const (
	KindReading Kind = iota
	KindDiagnostic
	KindUnrecognized
)

// Diagnostic severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Message is the result of classifying one token.
// SensorID/TemperatureC are set for KindReading, Severity for
// KindDiagnostic; Text carries the original or rejection text.
type Message struct {
	Kind         Kind
	SensorID     string
	TemperatureC float64
	Severity     string
	Text         string
}

const minSensorIDLen = 8

// readingExclusions: a token containing any of these is never treated as a
// reading, even if it has a reading-shaped separator. The primary dispatch is
// the shape check; the exclusion only guards firmware messages that happen to
// contain a separator.
var readingExclusions = []string{"ERROR", "WARN", "FAIL", "INFO"}

// ClassifyLine splits a trimmed serial line on commas and classifies each
// non-empty token independently.
func ClassifyLine(line string) []Message {
	tokens := strings.Split(line, ",")
	out := make([]Message, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, ClassifyToken(tok))
	}
	return out
}

// ClassifyToken classifies a single token. Temperature-shaped tokens are
// checked first, then firmware keywords in priority order, then unrecognized.
func ClassifyToken(tok string) Message {
	if hasReadingShape(tok) {
		return classifyReading(tok)
	}

	upper := strings.ToUpper(tok)
	switch {
	case strings.Contains(upper, "ERROR"), strings.Contains(upper, "FAIL"):
		return Message{Kind: KindDiagnostic, Severity: SeverityError, Text: tok}
	case strings.Contains(upper, "WARN"), strings.Contains(upper, "OFFLINE"), strings.Contains(upper, "INVALID"):
		return Message{Kind: KindDiagnostic, Severity: SeverityWarning, Text: tok}
	case strings.Contains(upper, "INFO"), strings.Contains(upper, "RESCAN"),
		strings.Contains(upper, "FOUND"), strings.Contains(upper, "COMPLETE"):
		return Message{Kind: KindDiagnostic, Severity: SeverityInfo, Text: tok}
	}
	return Message{Kind: KindUnrecognized, Text: tok}
}

// hasReadingShape reports whether the token is a candidate "id<sep>value"
// reading: it contains one of the recognized separators and none of the
// firmware keywords.
func hasReadingShape(tok string) bool {
	if !strings.ContainsAny(tok, ": ,\t") {
		return false
	}
	upper := strings.ToUpper(tok)
	for _, kw := range readingExclusions {
		if strings.Contains(upper, kw) {
			return false
		}
	}
	return true
}

// classifyReading splits a reading-shaped token on its first separator
// (colon preferred, then comma, then whitespace) and validates both halves.
// Rejections are reported as warning diagnostics, never silently dropped.
func classifyReading(tok string) Message {
	var idPart, valPart string
	switch {
	case strings.Contains(tok, ":"):
		idPart, valPart, _ = strings.Cut(tok, ":")
	case strings.Contains(tok, ","):
		idPart, valPart, _ = strings.Cut(tok, ",")
	default:
		fields := strings.Fields(tok)
		if len(fields) < 2 {
			return Message{Kind: KindUnrecognized, Text: tok}
		}
		idPart, valPart = fields[0], fields[1]
	}
	idPart = strings.TrimSpace(idPart)
	valPart = strings.TrimSpace(valPart)

	temp, err := strconv.ParseFloat(valPart, 64)
	validTemp := err == nil && !math.IsNaN(temp) && !math.IsInf(temp, 0)

	if !isHexID(idPart) || !validTemp {
		return Message{
			Kind:     KindDiagnostic,
			Severity: SeverityWarning,
			Text: fmt.Sprintf("reading rejected: %q - sensor_id=%q (need %d+ hex chars), temp=%q (need finite number)",
				tok, idPart, minSensorIDLen, valPart),
		}
	}
	return Message{Kind: KindReading, SensorID: idPart, TemperatureC: temp}
}

func isHexID(s string) bool {
	if len(s) < minSensorIDLen {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
