package service

import (
	"testing"

	"carelink/internal/domain"
	"carelink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignmentService(env *testEnv) *AssignmentService {
	return NewAssignmentService(env.jobRepo, env.appRepo, env.chatRepo, env.hub)
}

func apply(t *testing.T, env *testEnv, jobID, staffID uint) {
	t.Helper()
	require.NoError(t, env.appRepo.Create(&models.JobApplication{JobID: jobID, StaffID: staffID}))
}

func TestApproveAssignsExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	svc := newAssignmentService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	admin := seedUser(t, env.db, domain.RoleAdmin, 0)
	staffA := seedUser(t, env.db, domain.RoleStaff, 0)
	staffB := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "daily nursing care")
	apply(t, env, job.ID, staffA.ID)
	apply(t, env, job.ID, staffB.ID)

	assigned, err := svc.Approve(job.ID, staffA.ID, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedStaffID)
	assert.Equal(t, staffA.ID, *assigned.AssignedStaffID)
	assert.Equal(t, domain.JobStatusProcessing, assigned.Status)

	// A concurrent approval by the admin must lose, not overwrite.
	_, err = svc.Approve(job.ID, staffB.ID, admin.ID)
	assert.ErrorIs(t, err, ErrJobAlreadyAssigned)

	var fresh models.Job
	require.NoError(t, env.db.First(&fresh, job.ID).Error)
	assert.Equal(t, staffA.ID, *fresh.AssignedStaffID)
}

func TestApproveMarksApplicationsDecided(t *testing.T) {
	env := newTestEnv(t)
	svc := newAssignmentService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staffA := seedUser(t, env.db, domain.RoleStaff, 0)
	staffB := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "post-surgery assistance")
	apply(t, env, job.ID, staffA.ID)
	apply(t, env, job.ID, staffB.ID)

	_, err := svc.Approve(job.ID, staffB.ID, customer.ID)
	require.NoError(t, err)

	winner, err := env.appRepo.GetByJobAndStaff(job.ID, staffB.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationAccepted, winner.Status)

	loser, err := env.appRepo.GetByJobAndStaff(job.ID, staffA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationRejected, loser.Status)
}

func TestApproveSendsConfirmationMessage(t *testing.T) {
	env := newTestEnv(t)
	svc := newAssignmentService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "companionship visits")
	apply(t, env, job.ID, staff.ID)

	_, err := svc.Approve(job.ID, staff.ID, customer.ID)
	require.NoError(t, err)

	msgs, err := env.chatRepo.ListThread(job.ID, customer.ID, staff.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, customer.ID, msgs[0].SenderID)
	require.NotNil(t, msgs[0].ReceiverID)
	assert.Equal(t, staff.ID, *msgs[0].ReceiverID)
}

func TestApproveRequiresApplication(t *testing.T) {
	env := newTestEnv(t)
	svc := newAssignmentService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "care")

	_, err := svc.Approve(job.ID, staff.ID, customer.ID)
	assert.ErrorIs(t, err, ErrNotAnApplicant)
}

func TestListApplicantsRanksRecommendedFirst(t *testing.T) {
	env := newTestEnv(t)
	svc := newAssignmentService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	job := seedJob(t, env.db, customer.ID, "We need Dementia Care for my grandmother, overnight.")

	plain := seedUser(t, env.db, domain.RoleStaff, 0)
	plain.Specialties = "physiotherapy"
	require.NoError(t, env.db.Save(plain).Error)

	match := seedUser(t, env.db, domain.RoleStaff, 0)
	match.Specialties = "dementia care, first aid"
	require.NoError(t, env.db.Save(match).Error)

	apply(t, env, job.ID, plain.ID)
	apply(t, env, job.ID, match.ID)

	applicants, err := svc.ListApplicants(job.ID)
	require.NoError(t, err)
	require.Len(t, applicants, 2)
	assert.Equal(t, match.ID, applicants[0].ID)
	assert.True(t, applicants[0].Recommended)
	assert.Equal(t, plain.ID, applicants[1].ID)
	assert.False(t, applicants[1].Recommended)
}

func TestMatchesSpecialties(t *testing.T) {
	cases := []struct {
		specialties string
		message     string
		want        bool
	}{
		{"dementia care", "need Dementia Care at night", true},
		{"physio, elder care", "looking for elder care help", true},
		{"physiotherapy", "need help with cooking", false},
		{"", "anything", false},
		{" , ,", "anything", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchesSpecialties(tc.specialties, tc.message), "specialties=%q message=%q", tc.specialties, tc.message)
	}
}
