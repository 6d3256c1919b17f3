package topology

import (
	"fmt"
	"strings"

	"github.com/matzehuels/topolayer/pkg/errors"
)

// DiagnosticKind classifies a non-fatal extraction problem.
type DiagnosticKind string

const (
	// DiagNoCandidates means a required column was not found by name and
	// the table has no string or number columns to fall back on.
	DiagNoCandidates DiagnosticKind = "no_candidates"

	// DiagMissingField means a required column is still unresolved after
	// the positional fallback.
	DiagMissingField DiagnosticKind = "missing_field"

	// DiagCoercion means some values of a column could not be converted
	// to a number and were treated as absent.
	DiagCoercion DiagnosticKind = "coercion"
)

// Diagnostic describes a problem found during extraction.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Table     string         `json:"table"` // "nodes" or "edges"
	Role      string         `json:"role"`
	Message   string         `json:"message"`
	Available []string       `json:"available,omitempty"`
	Rows      []int          `json:"rows,omitempty"`
}

// Err converts the diagnostic into a coded error.
func (d Diagnostic) Err() error {
	code := errors.ErrCodeMissingField
	if d.Kind == DiagCoercion {
		code = errors.ErrCodeInvalidFrame
	}
	return errors.New(code, "%s", d.String())
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Table, d.Message)
	if len(d.Available) > 0 {
		fmt.Fprintf(&b, " (available: %s)", strings.Join(d.Available, ", "))
	}
	return b.String()
}

func missingDiag(kind DiagnosticKind, table, role string, available []string) Diagnostic {
	msg := fmt.Sprintf("no column for %s", role)
	if kind == DiagNoCandidates {
		msg = fmt.Sprintf("no column for %s and no string or number columns to fall back on", role)
	}
	if available == nil {
		available = []string{}
	}
	return Diagnostic{Kind: kind, Table: table, Role: role, Message: msg, Available: available}
}

func coercionDiag(table, role, column string, rows []int) Diagnostic {
	return Diagnostic{
		Kind:    DiagCoercion,
		Table:   table,
		Role:    role,
		Message: fmt.Sprintf("%d value(s) in column %q are not valid %s values", len(rows), column, role),
		Rows:    rows,
	}
}
