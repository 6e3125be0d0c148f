package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // Loads .env files into the environment
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/hotel-room-reservation/internal/config"
    "github.com/iliyamo/hotel-room-reservation/internal/database"
    "github.com/iliyamo/hotel-room-reservation/internal/handler"
    "github.com/iliyamo/hotel-room-reservation/internal/middleware"
    "github.com/iliyamo/hotel-room-reservation/internal/queue"
    "github.com/iliyamo/hotel-room-reservation/internal/repository"
    "github.com/iliyamo/hotel-room-reservation/internal/router"
    "github.com/iliyamo/hotel-room-reservation/internal/service"
)

func main() {
    // Load .env if present; real environments set variables directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer func() { _ = db.Close() }()

    // Repositories share the single *sql.DB pool.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    clients := repository.NewClientRepo(db)
    roomTypes := repository.NewRoomTypeRepo(db)
    rooms := repository.NewRoomRepo(db)
    reservations := repository.NewReservationRepo(db)

    bookings := service.NewReservationService(db, reservations, roomTypes, clients)

    authH := handler.NewAuthHandler(cfg, users, tokens, clients)
    resH := handler.NewReservationHandler(bookings)
    clientResH := handler.NewClientReservationHandler(bookings)
    invH := handler.NewInventoryHandler(roomTypes, rooms, bookings)
    clientH := handler.NewClientHandler(clients)

    // Consume reservation.confirmed events in the background.  The consumer
    // reconnects on its own; a broker outage never blocks startup.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("reservation consumer stopped: %v", err)
        }
    }()

    e := echo.New()

    // Redis backs the token-bucket rate limiter and the response cache.
    rdb := config.NewRedisClient()
    if rdb != nil {
        e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
        e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
    }

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterAdmin(e, cfg.JWTSecret, resH, invH, clientH)
    router.RegisterClient(e, cfg.JWTSecret, clientResH, invH)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
