package service

import (
	"testing"

	"carelink/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(env *testEnv) *ChatService {
	return NewChatService(env.chatRepo, env.jobRepo, env.appRepo, env.profileRepo, env.hub, env.chatHub)
}

func TestThreadScoping(t *testing.T) {
	env := newTestEnv(t)
	svc := newChatService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staffA := seedUser(t, env.db, domain.RoleStaff, 0)
	staffC := seedUser(t, env.db, domain.RoleStaff, 0)
	jobJ := seedJob(t, env.db, customer.ID, "job one")
	jobJ2 := seedJob(t, env.db, customer.ID, "job two")
	apply(t, env, jobJ.ID, staffA.ID)
	apply(t, env, jobJ.ID, staffC.ID)
	apply(t, env, jobJ2.ID, staffA.ID)

	sent, err := svc.Send(staffA.ID, domain.RoleStaff, &customer.ID, &jobJ.ID, "hello from A")
	require.NoError(t, err)

	// Both directions of the pair see it.
	msgs, err := svc.Thread(jobJ.ID, customer.ID, staffA.ID, domain.RoleStaff)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, sent.ID, msgs[0].ID)

	msgs, err = svc.Thread(jobJ.ID, staffA.ID, customer.ID, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	// A third party's thread for the same job stays empty.
	msgs, err = svc.Thread(jobJ.ID, customer.ID, staffC.ID, domain.RoleStaff)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// The same pair on a different job stays empty.
	msgs, err = svc.Thread(jobJ2.ID, customer.ID, staffA.ID, domain.RoleStaff)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSendRequiresThreadMembership(t *testing.T) {
	env := newTestEnv(t)
	svc := newChatService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	outsider := seedUser(t, env.db, domain.RoleStaff, 0)
	otherCustomer := seedUser(t, env.db, domain.RoleCustomer, 0)
	job := seedJob(t, env.db, customer.ID, "private job")

	_, err := svc.Send(outsider.ID, domain.RoleStaff, &customer.ID, &job.ID, "let me in")
	assert.ErrorIs(t, err, ErrNotThreadMember)

	_, err = svc.Send(otherCustomer.ID, domain.RoleCustomer, &outsider.ID, &job.ID, "not my job")
	assert.ErrorIs(t, err, ErrNotThreadMember)
}

func TestThreadMarksMessagesRead(t *testing.T) {
	env := newTestEnv(t)
	svc := newChatService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "care job")
	apply(t, env, job.ID, staff.ID)

	_, err := svc.Send(staff.ID, domain.RoleStaff, &customer.ID, &job.ID, "first")
	require.NoError(t, err)
	_, err = svc.Send(staff.ID, domain.RoleStaff, &customer.ID, &job.ID, "second")
	require.NoError(t, err)

	unread, err := svc.UnreadCount(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	_, err = svc.Thread(job.ID, staff.ID, customer.ID, domain.RoleCustomer)
	require.NoError(t, err)

	unread, err = svc.UnreadCount(customer.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestSupportChannelAndAdminInbox(t *testing.T) {
	env := newTestEnv(t)
	svc := newChatService(env)
	admin := seedUser(t, env.db, domain.RoleAdmin, 0)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)

	// Two users write to the support channel (nil receiver), admin replies
	// to one of them.
	_, err := svc.Send(customer.ID, domain.RoleCustomer, nil, nil, "I need help with my request")
	require.NoError(t, err)
	_, err = svc.Send(staff.ID, domain.RoleStaff, nil, nil, "question about payouts")
	require.NoError(t, err)
	_, err = svc.Send(admin.ID, domain.RoleAdmin, &customer.ID, nil, "happy to help")
	require.NoError(t, err)

	thread, err := svc.SupportThread(customer.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "I need help with my request", thread[0].Content)
	assert.Equal(t, "happy to help", thread[1].Content)

	// Staff sees only their own conversation.
	thread, err = svc.SupportThread(staff.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)

	inbox, err := svc.AdminInbox()
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	seen := map[uint]int{}
	for _, conv := range inbox {
		seen[conv.User.ID] = len(conv.Messages)
	}
	assert.Equal(t, 2, seen[customer.ID])
	assert.Equal(t, 1, seen[staff.ID])

	// The firehose view carries every channel message in order.
	all, err := svc.SupportChannel()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "I need help with my request", all[0].Content)
	assert.Equal(t, "question about payouts", all[1].Content)
	assert.Equal(t, "happy to help", all[2].Content)
}
