package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorloop-api/internal/middleware"
	"github.com/mentorloop/mentorloop-api/internal/models"
	"github.com/mentorloop/mentorloop-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Mentor       *MentorHandler
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Review       *ReviewHandler
	Favorite     *FavoriteHandler
	Chat         *ChatHandler
	Export       *ExportHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts every endpoint on the engine. The mentor catalog and
// calendar are public; everything that mutates runs behind JWT plus role
// checks.
func RegisterRoutes(r *gin.Engine, h Handlers, authService *service.AuthService) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)

		authed := auth.Group("", middleware.JWT(authService))
		authed.POST("/logout", h.Auth.Logout)
		authed.POST("/change-password", h.Auth.ChangePassword)
		authed.GET("/me", h.Auth.Me)
	}

	mentors := api.Group("/mentors", middleware.OptionalJWT(authService))
	{
		mentors.GET("", h.Mentor.Browse)
		mentors.GET("/:id", h.Mentor.Get)
		mentors.GET("/:id/reviews", h.Review.ListByMentor)
		mentors.GET("/:id/calendar", h.Availability.MonthView)
		mentors.GET("/:id/slots", h.Availability.DaySlots)
	}

	profile := api.Group("/profile/mentor", middleware.JWT(authService), middleware.RequireRoles(models.RoleMentor, models.RoleAdmin))
	{
		profile.GET("", h.Mentor.MyProfile)
		profile.PUT("", h.Mentor.UpsertProfile)
	}

	availability := api.Group("/availability", middleware.JWT(authService), middleware.RequireRoles(models.RoleMentor, models.RoleAdmin))
	{
		availability.POST("/slots", h.Availability.AddSlot)
		availability.DELETE("/slots/:slotId", h.Availability.RemoveSlot)
		availability.POST("/weekly", h.Availability.GenerateWeekly)
	}

	bookings := api.Group("/bookings", middleware.JWT(authService))
	{
		bookings.POST("", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), h.Booking.Create)
		bookings.GET("", h.Booking.List)
		bookings.GET("/:id", h.Booking.Get)
		bookings.DELETE("/:id", h.Booking.Cancel)
		bookings.POST("/:id/complete", middleware.RequireRoles(models.RoleMentor, models.RoleAdmin), h.Booking.Complete)
	}

	reviews := api.Group("/reviews", middleware.JWT(authService), middleware.RequireRoles(models.RoleStudent, models.RoleAdmin))
	{
		reviews.POST("", h.Review.Create)
	}

	favorites := api.Group("/favorites", middleware.JWT(authService), middleware.RequireRoles(models.RoleStudent, models.RoleAdmin))
	{
		favorites.GET("", h.Favorite.List)
		favorites.PUT("/:id", h.Favorite.Add)
		favorites.DELETE("/:id", h.Favorite.Remove)
	}

	messages := api.Group("/messages", middleware.JWT(authService))
	{
		messages.POST("", h.Chat.Send)
		messages.GET("/:userId", h.Chat.Conversation)
	}

	// The download token is signed and short-lived, so the route needs no JWT.
	api.GET("/exports/download/:token", h.Export.Download)

	exports := api.Group("/exports", middleware.JWT(authService))
	{
		exports.GET("/schedule", middleware.RequireRoles(models.RoleMentor, models.RoleAdmin), h.Export.Schedule)
		exports.GET("/bookings", h.Export.Bookings)
	}
}
