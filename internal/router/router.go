package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // Echo web framework used to handle routing

    "github.com/iliyamo/hotel-room-reservation/internal/handler"    // handlers implementing the endpoints
    "github.com/iliyamo/hotel-room-reservation/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring systems probe this endpoint to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while the authenticated account endpoint lives under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    // Registration creates the user account and, for clients, the profile
    // that owns their reservations.
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // /refresh rotates the refresh token; /refresh-access issues a new
    // access token while leaving the refresh token untouched.
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout takes the refresh token in the body and revokes it, so it does
    // not require a JWT.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("ADMIN", "CLIENT"))
    auth.GET("/me", a.Me)
}

// RegisterAdmin registers the back-office surface: full reservation control,
// inventory management and client administration.  Every route requires a
// valid access token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, jwtSecret string, res *handler.ReservationHandler, inv *handler.InventoryHandler, cl *handler.ClientHandler) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("ADMIN"))

    // Reservations on behalf of any client.
    g.GET("/reservations", res.List)
    g.POST("/reservations", res.Create)
    g.GET("/reservations/:id", res.Get)
    g.PATCH("/reservations/:id", res.Update)
    g.DELETE("/reservations/:id", res.Delete)

    // Inventory: room types and the physical rooms counted by the
    // availability ledger.
    g.POST("/room-types", inv.CreateRoomType)
    g.PUT("/room-types/:id", inv.UpdateRoomType)
    g.DELETE("/room-types/:id", inv.DeleteRoomType)
    g.POST("/rooms", inv.CreateRoom)
    g.PUT("/rooms/:id", inv.UpdateRoom)
    g.DELETE("/rooms/:id", inv.DeleteRoom)

    // Client profiles.
    g.GET("/clients", cl.List)
    g.GET("/clients/:id", cl.Get)
    g.PUT("/clients/:id", cl.Update)
    g.DELETE("/clients/:id", cl.Delete)
}

// RegisterClient registers the self-service surface.  Browse endpoints for
// inventory are shared with admins; /my-reservations is scoped to the
// authenticated client by the handlers themselves.
func RegisterClient(e *echo.Echo, jwtSecret string, res *handler.ClientReservationHandler, inv *handler.InventoryHandler) {
    browse := e.Group("/v1")
    browse.Use(middleware.JWTAuth(jwtSecret))
    browse.Use(middleware.RequireRole("ADMIN", "CLIENT"))

    browse.GET("/room-types", inv.ListRoomTypes)
    browse.GET("/room-types/:id", inv.GetRoomType)
    // Availability for a stay: ?check_in=YYYY-MM-DD&check_out=YYYY-MM-DD.
    browse.GET("/room-types/:id/availability", inv.Availability)
    browse.GET("/rooms", inv.ListRooms)
    browse.GET("/rooms/:id", inv.GetRoom)

    mine := e.Group("/v1/my-reservations")
    mine.Use(middleware.JWTAuth(jwtSecret))
    mine.Use(middleware.RequireRole("CLIENT"))

    mine.GET("", res.List)
    mine.POST("", res.Create)
    mine.GET("/:id", res.Get)
    mine.PATCH("/:id", res.Update)
    mine.DELETE("/:id", res.Delete)
}
