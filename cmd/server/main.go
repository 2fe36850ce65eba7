package main

import (
	"fmt"

	"power_gym_backend/internal/cache"
	"power_gym_backend/internal/database"
	"power_gym_backend/internal/handlers"
	"power_gym_backend/internal/repositories"
	"power_gym_backend/internal/router"
	"power_gym_backend/internal/services"
	"power_gym_backend/pkg/utils"

	"github.com/rs/zerolog/log"
)

func main() {
	utils.InitLogger()

	dsn := utils.Getenv("DATABASE_URL", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		utils.Getenv("DB_HOST", "localhost"),
		utils.Getenv("DB_PORT", "5432"),
		utils.Getenv("DB_USER", "postgres"),
		utils.Getenv("DB_PASSWORD", "postgres"),
		utils.Getenv("DB_NAME", "power_gym"),
		utils.Getenv("DB_SSLMODE", "disable"),
	))

	db, err := database.InitDB(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if utils.GetenvBool("DB_APPLY_SCHEMA", false) {
		if err := database.ApplySchema(db, utils.Getenv("DB_SCHEMA_PATH", "db_schema.sql")); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database schema")
		}
	}

	redisCache := cache.New(
		utils.Getenv("REDIS_ADDR", ""),
		utils.Getenv("REDIS_PASSWORD", ""),
		utils.GetenvInt("REDIS_DB", 0),
	)
	defer redisCache.Close()

	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	movementRepo := repositories.NewInventoryMovementRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	checkInRepo := repositories.NewCheckInRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Services
	authService := services.NewAuthService(authRepo, db)
	memberService := services.NewMemberService(memberRepo, db)
	catalogService := services.NewCatalogService(catalogRepo, movementRepo, db)
	transactionService := services.NewTransactionService(transactionRepo, catalogRepo, movementRepo, memberRepo, db)
	checkInService := services.NewCheckInService(checkInRepo, memberRepo, db)
	staffService := services.NewStaffService(staffRepo, db)
	attendanceService := services.NewAttendanceService(attendanceRepo, staffRepo, db)
	reportService := services.NewReportService(reportRepo, checkInRepo, attendanceService, redisCache)
	settingsService := services.NewSettingsService(settingsRepo, db)

	r := router.Setup(router.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Member:      handlers.NewMemberHandler(memberService),
		Catalog:     handlers.NewCatalogHandler(catalogService),
		Transaction: handlers.NewTransactionHandler(transactionService),
		CheckIn:     handlers.NewCheckInHandler(checkInService),
		Staff:       handlers.NewStaffHandler(staffService),
		Attendance:  handlers.NewAttendanceHandler(attendanceService),
		Report:      handlers.NewReportHandler(reportService),
		Settings:    handlers.NewSettingsHandler(settingsService),
	})

	port := utils.Getenv("PORT", "8080")
	log.Info().Str("port", port).Msg("Starting Power Gym backend")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
}
