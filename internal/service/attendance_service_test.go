package service

import (
	"context"
	"strings"
	"testing"

	"carelink/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendancePreconditions(t *testing.T) {
	env := newTestEnv(t)
	storage := &fakeStorage{}
	svc := NewAttendanceService(env.jobRepo, storage, env.hub)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	other := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "day shift")
	job.AssignedStaffID = &staff.ID
	require.NoError(t, env.db.Save(job).Error)

	photo := func() *strings.Reader { return strings.NewReader("jpeg-bytes") }
	ctx := context.Background()

	_, err := svc.Record(ctx, job.ID, staff.ID, "lunch-break", photo())
	assert.ErrorIs(t, err, ErrInvalidKind)

	// Unassigned staff cannot touch the job.
	_, err = svc.Record(ctx, job.ID, other.ID, domain.AttendanceCheckIn, photo())
	assert.ErrorIs(t, err, ErrNotAssignedToJob)

	// Check-out before check-in fails with its own error.
	_, err = svc.Record(ctx, job.ID, staff.ID, domain.AttendanceCheckOut, photo())
	assert.ErrorIs(t, err, ErrNotCheckedIn)

	updated, err := svc.Record(ctx, job.ID, staff.ID, domain.AttendanceCheckIn, photo())
	require.NoError(t, err)
	require.NotNil(t, updated.CheckInTime)
	assert.NotEmpty(t, updated.CheckInImg)

	// A second check-in never overwrites the first.
	_, err = svc.Record(ctx, job.ID, staff.ID, domain.AttendanceCheckIn, photo())
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	updated, err = svc.Record(ctx, job.ID, staff.ID, domain.AttendanceCheckOut, photo())
	require.NoError(t, err)
	require.NotNil(t, updated.CheckOutTime)
	assert.NotEmpty(t, updated.CheckOutImg)

	_, err = svc.Record(ctx, job.ID, staff.ID, domain.AttendanceCheckOut, photo())
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
}

func TestAttendanceStorageFailureLeavesJobUntouched(t *testing.T) {
	env := newTestEnv(t)
	storage := &fakeStorage{fail: true}
	svc := NewAttendanceService(env.jobRepo, storage, env.hub)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "night shift")
	job.AssignedStaffID = &staff.ID
	require.NoError(t, env.db.Save(job).Error)

	_, err := svc.Record(context.Background(), job.ID, staff.ID, domain.AttendanceCheckIn, strings.NewReader("jpeg"))
	require.Error(t, err)

	fresh, err := env.jobRepo.GetByID(job.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.CheckInTime)
}
