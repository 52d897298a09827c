package diagnostics

import "github.com/rs/zerolog"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Summary  string         `json:"summary"`
	Detail   string         `json:"detail,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

// Log writes d to l at the level matching its severity.
func (d Diagnostic) Log(l zerolog.Logger) {
	var e *zerolog.Event
	switch d.Severity {
	case Err:
		e = l.Error()
	case Warn:
		e = l.Warn()
	default:
		e = l.Info()
	}
	e = e.Str("code", d.Code)
	if d.Detail != "" {
		e = e.Str("detail", d.Detail)
	}
	if len(d.Evidence) > 0 {
		e = e.Fields(d.Evidence)
	}
	e.Msg(d.Summary)
}
