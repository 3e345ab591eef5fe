package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"restaurant-queue-backend/config"
	"restaurant-queue-backend/internal/auth"
	"restaurant-queue-backend/internal/mw"
)

// NewRouter creates and configures the gin router.
func NewRouter(cfg *config.Config, handler *Handler, jwtService *auth.JWTService, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.Logger(logger), gin.Recovery())
	r.Use(mw.CORS(cfg.Server.AllowedOrigins))
	r.Use(mw.RateLimiter(
		rate.Limit(cfg.Server.RateLimitPerSec),
		cfg.Server.RateLimitBurst,
		cfg.Server.RequestIPHeader,
	))

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authed := mw.Auth(jwtService)

	user := r.Group("/user")
	{
		user.POST("", handler.AddUser)
		user.POST("/register", handler.Register)
		user.POST("/login", handler.Login)

		user.GET("/me", authed, handler.Me)
		user.PUT("/change-password", authed, handler.ChangePassword)
		user.DELETE("/delete-user", authed, handler.DeleteUser)

		user.POST("/New_Appoint", authed, handler.NewAppoint)
		user.GET("/my_Appoint", authed, handler.MyAppoint)
		user.DELETE("/cancel_appoint/:id", authed, handler.CancelAppoint)
		user.GET("/manager_Appoint", authed, handler.ManagerAppoint)
		user.POST("/appoint_handle", authed, handler.AppointHandle)
		user.GET("/num_Appoint", caching, handler.NumAppoint)
		user.GET("/my_position", authed, handler.MyPosition)

		user.POST("/New_Restaurant", authed, handler.NewRestaurant)
		user.GET("/viewRestaurant", authed, handler.ViewRestaurant)
		user.GET("/viewOwnerRestaurant", authed, handler.ViewOwnerRestaurant)
		user.DELETE("/deleteOwnerRestaurant", authed, handler.DeleteOwnerRestaurant)

		user.GET("/appointment/record", authed, handler.LatestRecord)
		user.GET("/record_viewManager", authed, handler.RecentRecords)
		user.GET("/record_viewDate", authed, handler.RecordsByDate)
		user.POST("/records/import", authed, handler.ImportRecords)

		admin := user.Group("/admin", authed)
		{
			admin.GET("/approvals/pending", handler.PendingApprovals)
			admin.POST("/approvals/:id/handle", handler.HandleApproval)
		}
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/queue-prediction/wait-time", authed, handler.PredictWaitTime)
		apiGroup.POST("/queue-prediction/traffic", authed, handler.PredictTraffic)

		apiGroup.GET("/subscriptions", authed, handler.GetSubscriptions)
		apiGroup.PUT("/subscriptions", authed, handler.PutSubscription)
		apiGroup.DELETE("/subscriptions", authed, handler.DeleteSubscription)
		apiGroup.GET("/vapid_public_key", caching, handler.GetVAPIDPublicKey)
	}

	return r
}
