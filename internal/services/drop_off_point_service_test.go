package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/yukikurage/dropoff-point-api/internal/geocode"
	"github.com/yukikurage/dropoff-point-api/internal/geocode/mocks"
	"github.com/yukikurage/dropoff-point-api/internal/metrics"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
	dbtest "github.com/yukikurage/dropoff-point-api/internal/testutil"
	"github.com/yukikurage/dropoff-point-api/internal/utils"
)

type DropOffPointServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	geocoder    *mocks.MockClient
	db          *gorm.DB
	metrics     *metrics.Metrics
	service     *DropOffPointService
	memberships *MembershipService
	ctx         context.Context

	org      *models.Account
	member   *models.Account
	stranger *models.Account
	admin    *models.Account
}

func TestDropOffPointServiceSuite(t *testing.T) {
	suite.Run(t, new(DropOffPointServiceSuite))
}

func (s *DropOffPointServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.geocoder = mocks.NewMockClient(s.ctrl)
	s.db = dbtest.NewDB(s.T())
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.ctx = context.Background()

	store := repository.NewStore(s.db)
	s.service = NewDropOffPointService(store, s.geocoder, WithMetrics(s.metrics))
	s.memberships = NewMembershipService(store)

	s.org = dbtest.CreateAccount(s.T(), s.db, "org@example.com", dbtest.Organization(), dbtest.WithFullName("Food Bank"))
	s.member = dbtest.CreateAccount(s.T(), s.db, "member@example.com")
	s.stranger = dbtest.CreateAccount(s.T(), s.db, "stranger@example.com")
	s.admin = dbtest.CreateAccount(s.T(), s.db, "admin@example.com", dbtest.Superuser())
}

func (s *DropOffPointServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func featureAt(lon, lat float64) *geocode.FeatureCollection {
	return &geocode.FeatureCollection{
		Type: "FeatureCollection",
		Features: []geocode.Feature{{
			Type:     "Feature",
			Geometry: geocode.Geometry{Type: "Point", Coordinates: []float64{lon, lat}},
		}},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func (s *DropOffPointServiceSuite) acceptedMembership() *models.Membership {
	return dbtest.CreateMembership(s.T(), s.db, s.org, s.member, false)
}

func (s *DropOffPointServiceSuite) TestCreate() {
	s.Run("resolves coordinates", func() {
		s.geocoder.EXPECT().Search(gomock.Any(), "8 bd du Port", 1).Return(featureAt(2.29, 48.85), nil)

		point, err := s.service.Create(s.ctx, s.org, CreateDropOffPointInput{
			Title:   "Port",
			Address: ptr("8 bd du Port"),
		})
		s.Require().NoError(err)
		s.Require().NotNil(point.Latitude)
		s.Require().NotNil(point.Longitude)
		s.InDelta(48.85, *point.Latitude, 1e-9)
		s.InDelta(2.29, *point.Longitude, 1e-9)
		s.Equal(s.org.ID, point.OwnerID)
		s.Require().NotNil(point.OwnerFullName)
		s.Equal("Food Bank", *point.OwnerFullName)
	})

	s.Run("geocoder failure keeps the point without coordinates", func() {
		s.geocoder.EXPECT().Search(gomock.Any(), "123 Main St", 1).Return(nil, errors.New("boom"))

		point, err := s.service.Create(s.ctx, s.org, CreateDropOffPointInput{
			Title:   "Main",
			Address: ptr("123 Main St"),
		})
		s.Require().NoError(err)
		s.Nil(point.Latitude)
		s.Nil(point.Longitude)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.GeocodeFailures))

		var stored models.DropOffPoint
		s.Require().NoError(s.db.First(&stored, "id = ?", point.ID).Error)
		s.Nil(stored.Latitude)
	})

	s.Run("no address skips the geocoder", func() {
		point, err := s.service.Create(s.ctx, s.member, CreateDropOffPointInput{Title: "Shed"})
		s.Require().NoError(err)
		s.Nil(point.Latitude)
	})

	s.Run("invalid title", func() {
		_, err := s.service.Create(s.ctx, s.org, CreateDropOffPointInput{Title: "   "})
		s.ErrorIs(err, ErrInvalidTitle)
	})
}

func (s *DropOffPointServiceSuite) TestCreate_Responsible() {
	accepted := s.acceptedMembership()
	other := dbtest.CreateAccount(s.T(), s.db, "other@example.com", dbtest.Organization())
	pendingUser := dbtest.CreateAccount(s.T(), s.db, "pending@example.com")
	pending := dbtest.CreateMembership(s.T(), s.db, s.org, pendingUser, true)

	point, err := s.service.Create(s.ctx, s.org, CreateDropOffPointInput{Title: "Depot", ResponsibleID: &accepted.ID})
	s.Require().NoError(err)
	s.Require().NotNil(point.ResponsibleID)
	s.Equal(accepted.ID, *point.ResponsibleID)

	_, err = s.service.Create(s.ctx, s.org, CreateDropOffPointInput{Title: "Depot", ResponsibleID: &pending.ID})
	s.ErrorIs(err, ErrMemberNotInOrganization)

	_, err = s.service.Create(s.ctx, other, CreateDropOffPointInput{Title: "Depot", ResponsibleID: &accepted.ID})
	s.ErrorIs(err, ErrMemberNotInOrganization)

	_, err = s.service.Create(s.ctx, s.member, CreateDropOffPointInput{Title: "Depot", ResponsibleID: &accepted.ID})
	s.ErrorIs(err, ErrMemberNotInOrganization)

	var count int64
	s.Require().NoError(s.db.Model(&models.DropOffPoint{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *DropOffPointServiceSuite) TestGet() {
	membership := s.acceptedMembership()
	point := dbtest.CreateDropOffPoint(s.T(), s.db, s.org, "Depot", membership)

	got, err := s.service.Get(s.ctx, s.org, point.ID)
	s.Require().NoError(err)
	s.Equal("Depot", got.Title)

	_, err = s.service.Get(s.ctx, s.admin, point.ID)
	s.NoError(err)

	_, err = s.service.Get(s.ctx, s.stranger, point.ID)
	s.ErrorIs(err, ErrPermissionDenied)

	// The responsible member sees the point in List but cannot read it here.
	_, err = s.service.Get(s.ctx, s.member, point.ID)
	s.ErrorIs(err, ErrPermissionDenied)

	_, err = s.service.Get(s.ctx, s.org, uuid.New())
	s.ErrorIs(err, ErrDropOffPointNotFound)
}

func (s *DropOffPointServiceSuite) TestList() {
	membership := s.acceptedMembership()
	delegated := dbtest.CreateDropOffPoint(s.T(), s.db, s.org, "Delegated", membership)
	dbtest.CreateDropOffPoint(s.T(), s.db, s.org, "Private", nil)
	own := dbtest.CreateDropOffPoint(s.T(), s.db, s.member, "Own", nil)
	dbtest.CreateDropOffPoint(s.T(), s.db, s.stranger, "Foreign", nil)

	points, count, err := s.service.List(s.ctx, s.member, utils.DefaultPagination())
	s.Require().NoError(err)
	s.Equal(int64(2), count)
	s.Require().Len(points, 2)
	s.Equal(delegated.ID, points[0].ID)
	s.Equal(own.ID, points[1].ID)
	for _, p := range points {
		s.True(p.OwnerID == s.member.ID || p.ResponsibleID != nil)
	}

	points, count, err = s.service.List(s.ctx, s.admin, utils.PaginationParams{Skip: 0, Limit: 1, Enabled: true})
	s.Require().NoError(err)
	s.Equal(int64(4), count)
	s.Len(points, 1)

	points, count, err = s.service.List(s.ctx, s.admin, utils.PaginationParams{Skip: 0, Limit: 1, Enabled: false})
	s.Require().NoError(err)
	s.Equal(int64(4), count)
	s.Len(points, 4)
}

func (s *DropOffPointServiceSuite) TestUpdate() {
	membership := s.acceptedMembership()
	point := dbtest.CreateDropOffPoint(s.T(), s.db, s.org, "Depot", membership)

	s.Run("omitting responsible_id clears it", func() {
		updated, err := s.service.Update(s.ctx, s.org, point.ID, UpdateDropOffPointInput{
			Description: ptr("Back door"),
		})
		s.Require().NoError(err)
		s.Equal("Depot", updated.Title)
		s.Require().NotNil(updated.Description)
		s.Equal("Back door", *updated.Description)
		s.Nil(updated.ResponsibleID)
	})

	s.Run("sets responsible and coordinates", func() {
		s.geocoder.EXPECT().Search(gomock.Any(), "1 rue de Rivoli", 1).Return(featureAt(2.35, 48.86), nil)

		updated, err := s.service.Update(s.ctx, s.org, point.ID, UpdateDropOffPointInput{
			Title:         ptr("Rivoli"),
			Address:       ptr("1 rue de Rivoli"),
			ResponsibleID: &membership.ID,
		})
		s.Require().NoError(err)
		s.Equal("Rivoli", updated.Title)
		s.Require().NotNil(updated.ResponsibleID)
		s.Equal(membership.ID, *updated.ResponsibleID)
		s.Require().NotNil(updated.Latitude)
		s.InDelta(48.86, *updated.Latitude, 1e-9)
		s.Require().NotNil(updated.Description)
	})

	s.Run("superuser validates against the owner organization", func() {
		s.geocoder.EXPECT().Search(gomock.Any(), "1 rue de Rivoli", 1).Return(featureAt(2.35, 48.86), nil)

		updated, err := s.service.Update(s.ctx, s.admin, point.ID, UpdateDropOffPointInput{ResponsibleID: &membership.ID})
		s.Require().NoError(err)
		s.Require().NotNil(updated.ResponsibleID)
	})

	s.Run("unknown responsible", func() {
		s.geocoder.EXPECT().Search(gomock.Any(), gomock.Any(), 1).Return(featureAt(2.35, 48.86), nil)

		_, err := s.service.Update(s.ctx, s.org, point.ID, UpdateDropOffPointInput{ResponsibleID: ptr(uuid.New())})
		s.ErrorIs(err, ErrMemberNotInOrganization)
	})

	s.Run("permission checks", func() {
		_, err := s.service.Update(s.ctx, s.member, point.ID, UpdateDropOffPointInput{})
		s.ErrorIs(err, ErrPermissionDenied)

		_, err = s.service.Update(s.ctx, s.org, uuid.New(), UpdateDropOffPointInput{})
		s.ErrorIs(err, ErrDropOffPointNotFound)
	})
}

func (s *DropOffPointServiceSuite) TestDelete() {
	point := dbtest.CreateDropOffPoint(s.T(), s.db, s.org, "Depot", nil)

	s.ErrorIs(s.service.Delete(s.ctx, s.stranger, point.ID), ErrPermissionDenied)
	s.Require().NoError(s.service.Delete(s.ctx, s.org, point.ID))
	s.ErrorIs(s.service.Delete(s.ctx, s.org, point.ID), ErrDropOffPointNotFound)
}

// Invite, accept, delegate, revoke: the point survives without a
// responsible member.
func (s *DropOffPointServiceSuite) TestDelegationLifecycle() {
	info, err := s.memberships.Invite(s.ctx, s.org, s.member.Email)
	s.Require().NoError(err)

	asMember, err := s.memberships.ListMembershipsAsMember(s.ctx, s.member)
	s.Require().NoError(err)
	s.Require().Len(asMember, 1)
	s.True(asMember[0].IsPending)

	s.Require().NoError(s.memberships.AcceptInvitation(s.ctx, s.member, info.ID))

	asMember, err = s.memberships.ListMembershipsAsMember(s.ctx, s.member)
	s.Require().NoError(err)
	s.False(asMember[0].IsPending)

	point, err := s.service.Create(s.ctx, s.org, CreateDropOffPointInput{Title: "Depot", ResponsibleID: &info.ID})
	s.Require().NoError(err)

	visible, _, err := s.service.List(s.ctx, s.member, utils.DefaultPagination())
	s.Require().NoError(err)
	s.Require().Len(visible, 1)

	s.Require().NoError(s.memberships.LeaveOrRevoke(s.ctx, s.org, info.ID, AsOrganization))

	got, err := s.service.Get(s.ctx, s.org, point.ID)
	s.Require().NoError(err)
	s.Nil(got.ResponsibleID)

	visible, count, err := s.service.List(s.ctx, s.member, utils.DefaultPagination())
	s.Require().NoError(err)
	s.Zero(count)
	s.Empty(visible)
}
