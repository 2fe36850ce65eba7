package router

import (
	"net/http"
	"time"

	"power_gym_backend/internal/handlers"
	"power_gym_backend/internal/middleware"
	"power_gym_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Member      *handlers.MemberHandler
	Catalog     *handlers.CatalogHandler
	Transaction *handlers.TransactionHandler
	CheckIn     *handlers.CheckInHandler
	Staff       *handlers.StaffHandler
	Attendance  *handlers.AttendanceHandler
	Report      *handlers.ReportHandler
	Settings    *handlers.SettingsHandler
}

// Setup builds the gin engine with middleware and all routes mounted.
func Setup(h Handlers) *gin.Engine {
	if utils.Getenv("GIN_MODE", "") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.GinLogger())
	r.Use(middleware.Metrics())

	corsConfig := cors.Config{
		AllowOrigins:     []string{utils.Getenv("CORS_ORIGIN", "*")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}
	r.Use(cors.New(corsConfig))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	registerRoutes(v1, h)
	return r
}

func registerRoutes(v1 *gin.RouterGroup, h Handlers) {
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public authentication endpoints.
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.GET("/me", middleware.AuthMiddleware(), h.Auth.Profile)
		auth.POST("/logout", middleware.AuthMiddleware(), h.Auth.Logout)
	}

	// Everything below requires a valid token.
	api := v1.Group("")
	api.Use(middleware.AuthMiddleware())

	adminOnly := middleware.RoleAuthMiddleware("Admin")
	managers := middleware.RoleAuthMiddleware("Admin", "Manager")

	api.GET("/users", adminOnly, h.Auth.ListUsers)

	members := api.Group("/members")
	{
		members.POST("", h.Member.CreateMember)
		members.GET("", h.Member.ListMembers)
		members.GET("/:id", h.Member.GetMember)
		members.GET("/code/:code", h.Member.GetMemberByCode)
		members.PUT("/:id", h.Member.UpdateMember)
		members.DELETE("/:id", managers, h.Member.DeleteMember)
	}

	membershipTypes := api.Group("/membership-types")
	{
		membershipTypes.POST("", managers, h.Member.CreateMembershipType)
		membershipTypes.GET("", h.Member.ListMembershipTypes)
		membershipTypes.GET("/:id", h.Member.GetMembershipType)
		membershipTypes.PUT("/:id", managers, h.Member.UpdateMembershipType)
		membershipTypes.DELETE("/:id", managers, h.Member.DeleteMembershipType)
	}

	categories := api.Group("/product-categories")
	{
		categories.POST("", managers, h.Catalog.CreateCategory)
		categories.GET("", h.Catalog.ListCategories)
		categories.PUT("/:id", managers, h.Catalog.UpdateCategory)
		categories.DELETE("/:id", managers, h.Catalog.DeleteCategory)
	}

	products := api.Group("/products")
	{
		products.POST("", managers, h.Catalog.CreateProduct)
		products.GET("", h.Catalog.ListProducts)
		products.GET("/low-stock", h.Catalog.ListLowStockProducts)
		products.GET("/:id", h.Catalog.GetProduct)
		products.PUT("/:id", managers, h.Catalog.UpdateProduct)
		products.DELETE("/:id", managers, h.Catalog.DeleteProduct)
	}

	inventory := api.Group("/inventory")
	{
		inventory.POST("/movements", managers, h.Catalog.AdjustStock)
		inventory.GET("/movements", h.Catalog.ListMovements)
	}

	transactions := api.Group("/transactions")
	{
		transactions.POST("", h.Transaction.Checkout)
		transactions.GET("", h.Transaction.ListTransactions)
		transactions.GET("/:id", h.Transaction.GetTransaction)
	}

	checkIns := api.Group("/check-ins")
	{
		checkIns.POST("", h.CheckIn.CheckIn)
		checkIns.GET("", h.CheckIn.ListCheckIns)
		checkIns.PUT("/:id/check-out", h.CheckIn.CheckOut)
	}

	staff := api.Group("/staff")
	{
		staff.POST("", managers, h.Staff.CreateStaff)
		staff.GET("", h.Staff.ListStaff)
		staff.GET("/:id", h.Staff.GetStaff)
		staff.PUT("/:id", managers, h.Staff.UpdateStaff)
		staff.DELETE("/:id", adminOnly, h.Staff.DeactivateStaff)
		staff.GET("/:id/schedule", h.Staff.GetWeeklySchedule)
		staff.PUT("/:id/schedule", managers, h.Staff.UpdateWeeklySchedule)
	}

	attendance := api.Group("/staff-attendance")
	{
		attendance.POST("/clock-in", h.Attendance.ClockIn)
		attendance.POST("/clock-out", h.Attendance.ClockOutStaff)
		attendance.PUT("/clock-out/:id", h.Attendance.ClockOut)
		attendance.GET("/open/:staffId", h.Attendance.GetOpenSession)
		attendance.GET("", h.Attendance.ListAttendance)
		attendance.GET("/duty-status", h.Attendance.DutyBoard)
		attendance.GET("/duty-status/:staffId", h.Attendance.DutyStatus)
		attendance.GET("/on-duty", h.Attendance.OnDutyStaff)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/dashboard", h.Report.Dashboard)
		reports.GET("/sales", managers, h.Report.SalesReport)
		reports.GET("/payment-methods", managers, h.Report.PaymentMethodBreakdown)
		reports.GET("/attendance", managers, h.Report.AttendanceSummary)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", h.Settings.GetSettings)
		settings.PUT("", adminOnly, h.Settings.UpdateSettings)
	}
}
