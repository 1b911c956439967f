package service

import (
	"context"
	"strings"
	"testing"

	"carelink/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReportEnforcesSizeCap(t *testing.T) {
	env := newTestEnv(t)
	storage := &fakeStorage{}
	svc := NewReportService(env.cfg, env.careLogRepo, env.jobRepo, storage, env.hub)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)

	_, err := svc.Submit(context.Background(), nil, staff.ID, strings.NewReader("x"), env.cfg.Upload.MaxVideoBytes+1, "too big")
	assert.ErrorIs(t, err, ErrVideoTooLarge)
	assert.Zero(t, storage.uploads)

	_, err = svc.Submit(context.Background(), nil, staff.ID, strings.NewReader("x"), 0, "empty")
	assert.ErrorIs(t, err, ErrVideoTooLarge)
}

func TestSubmitReportRequiresAssignment(t *testing.T) {
	env := newTestEnv(t)
	svc := NewReportService(env.cfg, env.careLogRepo, env.jobRepo, &fakeStorage{}, env.hub)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "care job")

	_, err := svc.Submit(context.Background(), &job.ID, staff.ID, strings.NewReader("mp4"), 1024, "not mine")
	assert.ErrorIs(t, err, ErrNotAssignedToJob)
}

func TestSubmitReportAppendsCareLog(t *testing.T) {
	env := newTestEnv(t)
	svc := NewReportService(env.cfg, env.careLogRepo, env.jobRepo, &fakeStorage{}, env.hub)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "care job")
	job.AssignedStaffID = &staff.ID
	require.NoError(t, env.db.Save(job).Error)

	entry, err := svc.Submit(context.Background(), &job.ID, staff.ID, strings.NewReader("mp4-bytes"), 1024, "morning routine done")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.VideoURL)
	assert.Contains(t, entry.ThumbnailURL, "res.cloudinary.com/test-cloud/video/upload/so_0/care-reports/")

	reports, err := svc.ListByJob(job.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "morning routine done", reports[0].Description)

	mine, err := svc.ListByStaff(staff.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
