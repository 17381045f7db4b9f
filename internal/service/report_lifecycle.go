package service

import (
	"time"

	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
)

// reportTransitions is the single source of truth for valid status changes.
// pending -> in_progress -> resolved, with cancellation from the two active
// states and an explicit reopen edge resolved -> pending. cancelled is terminal.
var reportTransitions = map[model.ReportStatus][]model.ReportStatus{
	model.ReportPending:    {model.ReportInProgress, model.ReportCancelled},
	model.ReportInProgress: {model.ReportResolved, model.ReportCancelled},
	model.ReportResolved:   {model.ReportPending},
	model.ReportCancelled:  {},
}

// IsReportStatus reports whether s is a known status value.
func IsReportStatus(s model.ReportStatus) bool {
	_, ok := reportTransitions[s]
	return ok
}

// CanTransition reports whether the status graph allows from -> to.
func CanTransition(from, to model.ReportStatus) bool {
	for _, next := range reportTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition checks both the actor's capability and the status graph.
// Only workers and admins may change report status; the graph rejects anything
// not reachable from the current status (e.g. cancelled -> resolved).
func ValidateTransition(actorRole string, from, to model.ReportStatus) error {
	if actorRole != model.RoleWorker && actorRole != model.RoleAdmin {
		return apperror.ErrForbidden
	}
	if !IsReportStatus(to) {
		return apperror.ErrValidation
	}
	if !CanTransition(from, to) {
		return apperror.ErrInvalidTransition
	}
	return nil
}

// ApplyTransition mutates the report for an already-validated transition.
// Resolving stamps ResolvedAt and stores the notes; reopening clears ResolvedAt
// so the "resolved iff resolvedAt set" invariant holds. Points awarded for a
// previous resolution are never touched here - the ledger is append-only.
func ApplyTransition(report *model.Report, to model.ReportStatus, notes *string, now time.Time) {
	from := report.Status
	report.Status = to

	switch {
	case to == model.ReportResolved:
		resolvedAt := now
		report.ResolvedAt = &resolvedAt
		report.ResolutionNotes = notes
	case from == model.ReportResolved && to == model.ReportPending:
		report.ResolvedAt = nil
	}
}
