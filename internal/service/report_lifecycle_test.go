package service

import (
	"testing"
	"time"

	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    model.ReportStatus
		to      model.ReportStatus
		allowed bool
	}{
		{model.ReportPending, model.ReportInProgress, true},
		{model.ReportPending, model.ReportCancelled, true},
		{model.ReportPending, model.ReportResolved, false},
		{model.ReportInProgress, model.ReportResolved, true},
		{model.ReportInProgress, model.ReportCancelled, true},
		{model.ReportInProgress, model.ReportPending, false},
		{model.ReportResolved, model.ReportPending, true},
		{model.ReportResolved, model.ReportInProgress, false},
		{model.ReportResolved, model.ReportCancelled, false},
		{model.ReportCancelled, model.ReportPending, false},
		{model.ReportCancelled, model.ReportInProgress, false},
		{model.ReportCancelled, model.ReportResolved, false},
		{model.ReportPending, model.ReportPending, false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidateTransition_RoleGating(t *testing.T) {
	// Citizens never change status, regardless of how valid the edge is.
	err := ValidateTransition(model.RoleCitizen, model.ReportPending, model.ReportInProgress)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, ValidateTransition(model.RoleWorker, model.ReportPending, model.ReportInProgress))
	require.NoError(t, ValidateTransition(model.RoleAdmin, model.ReportInProgress, model.ReportResolved))
}

func TestValidateTransition_CancelledIsTerminal(t *testing.T) {
	// No role can pull a report out of cancelled.
	for _, role := range []string{model.RoleWorker, model.RoleAdmin} {
		err := ValidateTransition(role, model.ReportCancelled, model.ReportResolved)
		assert.ErrorIs(t, err, apperror.ErrInvalidTransition, role)
	}
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	err := ValidateTransition(model.RoleAdmin, model.ReportPending, model.ReportStatus("archived"))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestApplyTransition_ResolveSetsTimestampAndNotes(t *testing.T) {
	notes := "picked up by crew 7"
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	report := &model.Report{Status: model.ReportInProgress}
	ApplyTransition(report, model.ReportResolved, &notes, now)

	assert.Equal(t, model.ReportResolved, report.Status)
	require.NotNil(t, report.ResolvedAt)
	assert.Equal(t, now, *report.ResolvedAt)
	require.NotNil(t, report.ResolutionNotes)
	assert.Equal(t, notes, *report.ResolutionNotes)
}

func TestApplyTransition_ReopenClearsResolvedAt(t *testing.T) {
	resolvedAt := time.Now()
	report := &model.Report{
		Status:     model.ReportResolved,
		ResolvedAt: &resolvedAt,
	}

	ApplyTransition(report, model.ReportPending, nil, time.Now())

	assert.Equal(t, model.ReportPending, report.Status)
	assert.Nil(t, report.ResolvedAt, "resolved_at must be set iff status is resolved")
}

func TestApplyTransition_NonResolveLeavesResolvedAtUntouched(t *testing.T) {
	report := &model.Report{Status: model.ReportPending}
	ApplyTransition(report, model.ReportInProgress, nil, time.Now())

	assert.Equal(t, model.ReportInProgress, report.Status)
	assert.Nil(t, report.ResolvedAt)
}
