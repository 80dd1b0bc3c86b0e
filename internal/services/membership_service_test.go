package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dropoff-point-api/internal/metrics"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
	dbtest "github.com/yukikurage/dropoff-point-api/internal/testutil"
	"gorm.io/gorm"
)

type membershipTestEnv struct {
	db      *gorm.DB
	service *MembershipService
	metrics *metrics.Metrics
	ctx     context.Context
}

func setupMembershipTestEnv(t *testing.T) membershipTestEnv {
	t.Helper()

	db := dbtest.NewDB(t)
	m := metrics.New(prometheus.NewRegistry())

	return membershipTestEnv{
		db:      db,
		service: NewMembershipService(repository.NewStore(db), WithMetrics(m)),
		metrics: m,
		ctx:     context.Background(),
	}
}

func TestMembershipService_Invite(t *testing.T) {
	env := setupMembershipTestEnv(t)

	org := dbtest.CreateAccount(t, env.db, "org@example.com", dbtest.Organization())
	user := dbtest.CreateAccount(t, env.db, "user@example.com", dbtest.WithFullName("Jane Doe"))

	info, err := env.service.Invite(env.ctx, org, "  USER@example.com ")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, info.ID)
	assert.Equal(t, user.ID, info.MemberID)
	assert.Equal(t, "user@example.com", info.MemberEmail)
	assert.True(t, info.IsPending)
	assert.True(t, info.MemberIsActive)
	require.NotNil(t, info.MemberFullName)
	assert.Equal(t, "Jane Doe", *info.MemberFullName)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.InvitationsCreated))
}

func TestMembershipService_Invite_Errors(t *testing.T) {
	env := setupMembershipTestEnv(t)

	org := dbtest.CreateAccount(t, env.db, "org@example.com", dbtest.Organization())
	otherOrg := dbtest.CreateAccount(t, env.db, "other@example.com", dbtest.Organization())
	user := dbtest.CreateAccount(t, env.db, "user@example.com")

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.service.Invite(env.ctx, org, "nobody@example.com")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("self invite", func(t *testing.T) {
		_, err := env.service.Invite(env.ctx, org, "org@example.com")
		require.ErrorIs(t, err, ErrCannotInviteSelf)
	})

	t.Run("not an organization", func(t *testing.T) {
		_, err := env.service.Invite(env.ctx, user, "org@example.com")
		require.ErrorIs(t, err, ErrNotOrganization)
	})

	t.Run("double invite", func(t *testing.T) {
		_, err := env.service.Invite(env.ctx, org, user.Email)
		require.NoError(t, err)

		_, err = env.service.Invite(env.ctx, org, user.Email)
		require.ErrorIs(t, err, ErrMembershipExists)
	})

	t.Run("reverse direction", func(t *testing.T) {
		_, err := env.service.Invite(env.ctx, org, otherOrg.Email)
		require.NoError(t, err)

		_, err = env.service.Invite(env.ctx, otherOrg, org.Email)
		require.ErrorIs(t, err, ErrMembershipExists)
	})
}

func TestMembershipService_AcceptInvitation(t *testing.T) {
	env := setupMembershipTestEnv(t)

	org := dbtest.CreateAccount(t, env.db, "org@example.com", dbtest.Organization())
	user := dbtest.CreateAccount(t, env.db, "user@example.com")
	stranger := dbtest.CreateAccount(t, env.db, "stranger@example.com")

	info, err := env.service.Invite(env.ctx, org, user.Email)
	require.NoError(t, err)

	require.ErrorIs(t, env.service.AcceptInvitation(env.ctx, stranger, info.ID), ErrMembershipNotFound)
	require.ErrorIs(t, env.service.AcceptInvitation(env.ctx, org, info.ID), ErrMembershipNotFound)
	require.ErrorIs(t, env.service.AcceptInvitation(env.ctx, user, uuid.New()), ErrMembershipNotFound)

	require.NoError(t, env.service.AcceptInvitation(env.ctx, user, info.ID))
	require.ErrorIs(t, env.service.AcceptInvitation(env.ctx, user, info.ID), ErrMembershipNotFound)

	var membership models.Membership
	require.NoError(t, env.db.First(&membership, "id = ?", info.ID).Error)
	assert.False(t, membership.IsPending)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.InvitationsAccepted))
}

func TestMembershipService_LeaveOrRevoke(t *testing.T) {
	env := setupMembershipTestEnv(t)

	org := dbtest.CreateAccount(t, env.db, "org@example.com", dbtest.Organization())
	user := dbtest.CreateAccount(t, env.db, "user@example.com")
	stranger := dbtest.CreateAccount(t, env.db, "stranger@example.com", dbtest.Organization())

	t.Run("wrong side", func(t *testing.T) {
		m := dbtest.CreateMembership(t, env.db, org, user, false)
		t.Cleanup(func() { env.db.Delete(&models.Membership{}, "id = ?", m.ID) })

		require.ErrorIs(t, env.service.LeaveOrRevoke(env.ctx, org, m.ID, AsMember), ErrMembershipNotFound)
		require.ErrorIs(t, env.service.LeaveOrRevoke(env.ctx, user, m.ID, AsOrganization), ErrMembershipNotFound)
		require.ErrorIs(t, env.service.LeaveOrRevoke(env.ctx, stranger, m.ID, AsOrganization), ErrMembershipNotFound)
	})

	t.Run("member leaves", func(t *testing.T) {
		m := dbtest.CreateMembership(t, env.db, org, user, false)
		point := dbtest.CreateDropOffPoint(t, env.db, org, "Depot", m)

		require.NoError(t, env.service.LeaveOrRevoke(env.ctx, user, m.ID, AsMember))

		var reloaded models.DropOffPoint
		require.NoError(t, env.db.First(&reloaded, "id = ?", point.ID).Error)
		assert.Nil(t, reloaded.ResponsibleID)
		assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.MembershipsRemoved.WithLabelValues("member")))
	})

	t.Run("organization revokes", func(t *testing.T) {
		m := dbtest.CreateMembership(t, env.db, org, user, false)
		points := []*models.DropOffPoint{
			dbtest.CreateDropOffPoint(t, env.db, org, "One", m),
			dbtest.CreateDropOffPoint(t, env.db, org, "Two", m),
		}

		require.NoError(t, env.service.LeaveOrRevoke(env.ctx, org, m.ID, AsOrganization))

		for _, p := range points {
			var reloaded models.DropOffPoint
			require.NoError(t, env.db.First(&reloaded, "id = ?", p.ID).Error)
			assert.Nil(t, reloaded.ResponsibleID)
		}
		var count int64
		require.NoError(t, env.db.Model(&models.Membership{}).Where("id = ?", m.ID).Count(&count).Error)
		assert.Zero(t, count)

		require.ErrorIs(t, env.service.LeaveOrRevoke(env.ctx, org, m.ID, AsOrganization), ErrMembershipNotFound)
	})
}

func TestMembershipService_RevokeMember(t *testing.T) {
	env := setupMembershipTestEnv(t)

	org := dbtest.CreateAccount(t, env.db, "org@example.com", dbtest.Organization())
	user := dbtest.CreateAccount(t, env.db, "user@example.com")
	m := dbtest.CreateMembership(t, env.db, org, user, true)

	require.ErrorIs(t, env.service.RevokeMember(env.ctx, org, uuid.New()), ErrMembershipNotFound)
	require.NoError(t, env.service.RevokeMember(env.ctx, org, user.ID))

	_, err := repository.NewMembershipRepository(env.db).FindByID(env.ctx, m.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMembershipService_Lists(t *testing.T) {
	env := setupMembershipTestEnv(t)

	org := dbtest.CreateAccount(t, env.db, "org@example.com", dbtest.Organization(), dbtest.WithFullName("Food Bank"))
	user := dbtest.CreateAccount(t, env.db, "user@example.com")
	other := dbtest.CreateAccount(t, env.db, "other@example.com")

	_, err := env.service.Invite(env.ctx, org, user.Email)
	require.NoError(t, err)
	_, err = env.service.Invite(env.ctx, org, other.Email)
	require.NoError(t, err)

	members, err := env.service.ListMembers(env.ctx, org)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, user.ID, members[0].MemberID)
	assert.Equal(t, other.ID, members[1].MemberID)

	memberships, err := env.service.ListMembershipsAsMember(env.ctx, user)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, org.ID, memberships[0].OrganizationID)
	assert.Equal(t, "org@example.com", memberships[0].OrganizationEmail)
	assert.True(t, memberships[0].IsPending)

	_, err = env.service.ListMembers(env.ctx, user)
	require.ErrorIs(t, err, ErrNotOrganization)
}
