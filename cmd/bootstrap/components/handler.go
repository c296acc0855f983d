package components

import (
	"studyseat/internal/handler"
	"studyseat/internal/handler/api"
	"studyseat/internal/handler/middleware"
	"studyseat/internal/pkg/config"
	"studyseat/internal/pkg/jwt"
	"studyseat/internal/usecase/commands"
	"studyseat/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewAuthHandlerWithConfig,
		api.NewBookingHandler,
		api.NewCheckinHandler,
		api.NewRoomHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		NewRateLimiterWithConfig,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

type authHandlerDeps struct {
	fx.In

	Auth  commands.AuthCommands
	Users queries.UserQueries
	JWT   *jwt.Service
}

func NewAuthHandlerWithConfig(deps authHandlerDeps, cfg config.Config) *api.AuthHandler {
	return api.NewAuthHandler(deps.Auth, deps.Users, deps.JWT, cfg.Cookie)
}

func NewRateLimiterWithConfig(redisClient *redis.Client, cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(redisClient, cfg.RateLimit)
}

func NewHandlers(
	auth *api.AuthHandler,
	booking *api.BookingHandler,
	checkin *api.CheckinHandler,
	room *api.RoomHandler,
	admin *api.AdminHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:    auth,
		Booking: booking,
		Checkin: checkin,
		Room:    room,
		Admin:   admin,
	}
}
