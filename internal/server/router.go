package server

import (
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/dropoff-point-api/internal/constants"
	"github.com/yukikurage/dropoff-point-api/internal/geocode"
	"github.com/yukikurage/dropoff-point-api/internal/handlers"
	"github.com/yukikurage/dropoff-point-api/internal/metrics"
	"github.com/yukikurage/dropoff-point-api/internal/middleware"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
	"github.com/yukikurage/dropoff-point-api/internal/services"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP API is built from.
type Deps struct {
	Logger     *log.Logger
	DB         *gorm.DB
	Geocoder   geocode.Client
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Sessions   sessions.Store
	SigningKey []byte
}

// NewRouter wires services and handlers into a gin engine.
func NewRouter(deps Deps) *gin.Engine {
	store := repository.NewStore(deps.DB)
	opts := []services.Option{
		services.WithLogger(deps.Logger),
		services.WithMetrics(deps.Metrics),
	}

	accountService := services.NewAccountService(store, opts...)
	membershipService := services.NewMembershipService(store, opts...)
	pointService := services.NewDropOffPointService(store, deps.Geocoder, opts...)

	accountHandler := handlers.NewAccountHandler(accountService)
	orgHandler := handlers.NewOrganizationHandler(membershipService)
	memberHandler := handlers.NewMemberHandler(membershipService)
	pointHandler := handlers.NewDropOffPointHandler(pointService)
	addressHandler := handlers.NewAddressHandler(deps.Geocoder, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger.WithPrefix("http")))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.Sessions))

	r.GET("/health", healthHandler.Health)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	requireAuth := middleware.RequireAuth(accountService, deps.SigningKey)

	api := r.Group("/api/v1")
	{
		// Account routes
		accounts := api.Group("/accounts")
		{
			accounts.POST("/signup", accountHandler.Signup)
			accounts.GET("/me", requireAuth, accountHandler.GetMe)
			accounts.PATCH("/me", requireAuth, accountHandler.UpdateMe)
			accounts.DELETE("/me", requireAuth, accountHandler.DeleteMe)
			accounts.GET("/", requireAuth, middleware.RequireSuperuser(), accountHandler.ListAccounts)
			accounts.DELETE("/:id", requireAuth, middleware.RequireSuperuser(), accountHandler.DeleteAccount)
		}

		// Organization routes (organization accounts only)
		orgs := api.Group("/organizations")
		orgs.Use(requireAuth, middleware.RequireOrganization())
		{
			orgs.POST("/invite", orgHandler.Invite)
			orgs.GET("/members", orgHandler.ListMembers)
			orgs.DELETE("/members/:member_id", orgHandler.RemoveMember)
		}

		// Member routes
		members := api.Group("/members")
		members.Use(requireAuth)
		{
			members.GET("/organizations", memberHandler.ListOrganizations)
			members.POST("/invitations/:id/accept", memberHandler.AcceptInvitation)
			members.DELETE("/:membership_id", memberHandler.LeaveOrganization)
		}

		// Drop-off point routes
		points := api.Group("/drop-off-points")
		points.Use(requireAuth)
		{
			points.GET("/", pointHandler.ListDropOffPoints)
			points.POST("/", pointHandler.CreateDropOffPoint)
			points.GET("/:id", pointHandler.GetDropOffPoint)
			points.PUT("/:id", pointHandler.UpdateDropOffPoint)
			points.DELETE("/:id", pointHandler.DeleteDropOffPoint)
		}

		// Address routes
		address := api.Group("/address")
		address.Use(requireAuth)
		{
			address.GET("/search", addressHandler.Search)
		}
	}

	return r
}
