package handlers

import (
	"net/http"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/metrics"
	"restaurant_ordering/internal/services"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Users      services.UserService
	Menu       services.MenuService
	Tables     services.TableService
	Orders     services.OrderService
	Reports    services.ReportService
	Coupons    services.CouponService
	Payments   services.PaymentService
	Staff      services.StaffService
	Reviews    services.ReviewService
	Restaurant services.RestaurantService
}

func NewRouter(svc Services, checks map[string]Pinger, m *metrics.ServerMetrics, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))
	if m != nil {
		router.Use(m.Middleware())
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	apiHandler := NewAPIHandler(svc.Restaurant, checks, log)
	accountHandler := NewAccountHandler(svc.Users, log)
	menuHandler := NewMenuHandler(svc.Menu, log)
	tableHandler := NewTableHandler(svc.Tables, log)
	orderHandler := NewOrderHandler(svc.Orders, svc.Reports, log)
	adminHandler := NewAdminHandler(svc.Coupons, svc.Payments, svc.Staff, log)
	feedbackHandler := NewFeedbackHandler(svc.Reviews, log)

	auth := AuthRequired(svc.Users, log)
	staff := StaffOnly()

	router.GET("/health", apiHandler.Health)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	accounts := router.Group("/accounts")
	{
		accounts.POST("/register", accountHandler.Register)
		accounts.POST("/login", accountHandler.Login)
		accounts.POST("/logout", auth, accountHandler.Logout)
		accounts.GET("/profile", auth, accountHandler.Profile)
		accounts.PUT("/profile/update", auth, accountHandler.UpdateProfile)
	}

	api := router.Group("/api")
	{
		api.GET("/restaurant", apiHandler.Restaurant)

		// Catalog
		api.GET("/menu-categories", menuHandler.ListCategories)
		api.POST("/menu-categories", auth, staff, menuHandler.CreateCategory)
		api.GET("/menu/items", menuHandler.ListItems)
		api.GET("/menu/items/:id", menuHandler.GetItem)
		api.POST("/menu/items", auth, staff, menuHandler.CreateItem)
		api.PUT("/menu/items/:id", auth, staff, menuHandler.UpdateItem)
		api.DELETE("/menu/items/:id", auth, staff, menuHandler.DeleteItem)
		api.PUT("/menu/items/:id/details", auth, staff, menuHandler.SetItemDetails)
		api.GET("/featured-items", menuHandler.Featured)
		api.GET("/menu/search", menuHandler.Search)
		api.GET("/menu/specials/today", menuHandler.TodaySpecial)
		api.POST("/menu/specials", auth, staff, menuHandler.CreateSpecial)

		// Tables
		api.GET("/tables", tableHandler.List)
		api.POST("/tables", auth, staff, tableHandler.Create)
		api.POST("/tables/:id/reserve", auth, tableHandler.Reserve)
		api.POST("/tables/:id/release", auth, tableHandler.Release)

		// Orders
		api.POST("/orders/contact", feedbackHandler.SubmitContact)
		orders := api.Group("/orders", auth)
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/order/history", orderHandler.History)
			orders.GET("/:id", orderHandler.Get)
			orders.GET("/:id/invoice", orderHandler.Invoice)
			orders.GET("/:id/status-history", orderHandler.StatusHistory)
			orders.PUT("/:id/items", orderHandler.ReplaceItems)
			orders.POST("/:id/cancel", orderHandler.Cancel)
			orders.POST("/:id/process", orderHandler.Process)
			orders.POST("/:id/complete", orderHandler.Complete)
			orders.POST("/:id/review", feedbackHandler.CreateReview)
			orders.DELETE("/:id", orderHandler.Delete)
		}

		api.GET("/kitchen/orders", auth, staff, orderHandler.Kitchen)
		api.GET("/reports/daily-sales", auth, staff, orderHandler.DailySales)

		// Reference data
		api.GET("/coupons", auth, staff, adminHandler.ListCoupons)
		api.POST("/coupons", auth, staff, adminHandler.CreateCoupon)
		api.POST("/coupons/validate", adminHandler.ValidateCoupon)
		api.GET("/payment-methods", adminHandler.ListPaymentMethods)
		api.POST("/payment-methods", auth, staff, adminHandler.CreatePaymentMethod)

		// Staff and inventory
		api.GET("/staff", auth, staff, adminHandler.ListStaff)
		api.POST("/staff", auth, adminHandler.CreateStaff)
		api.GET("/staff/shifts", auth, staff, adminHandler.ListShifts)
		api.POST("/staff/shifts", auth, staff, adminHandler.CreateShift)
		api.GET("/inventory", auth, staff, adminHandler.ListInventory)
		api.POST("/inventory", auth, staff, adminHandler.CreateInventoryItem)
		api.GET("/inventory/low-stock", auth, staff, adminHandler.LowStock)
		api.POST("/inventory/:id/adjust", auth, staff, adminHandler.AdjustInventory)

		// Feedback
		api.GET("/reviews", feedbackHandler.ListReviews)
		api.GET("/contacts", auth, staff, feedbackHandler.ListContacts)
	}

	return router
}
