package server

import (
	"github.com/labstack/echo/v4"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	planHandler *handlers.WeeklyPlanHandler,
	orderHandler *handlers.DayOrderHandler,
	ingredientsHandler *handlers.IngredientsHandler,
	stockHandler *handlers.StockHandler,
	templateHandler *handlers.MenuTemplateHandler,
	mealHandler *handlers.MealHandler,
	notificationHandler *handlers.NotificationHandler,
	authMiddleware echo.MiddlewareFunc,
	rateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1", rateLimiter, authMiddleware)

	plans := api.Group("/weekly-plans")
	plans.GET("/:year/:week", planHandler.Get)
	plans.POST("/:year/:week/menus", planHandler.AssignMenus)
	plans.DELETE("/:year/:week/menus/:assignedMenuId", planHandler.UnassignMenu)
	plans.PATCH("/:year/:week/menus/:assignedMenuId/publish", planHandler.TogglePublish)
	plans.POST("/:year/:week/menus/:assignedMenuId/customers", planHandler.AssignCustomers)
	plans.DELETE("/:year/:week/menus/:assignedMenuId/customers/:customerId", planHandler.RemoveCustomer)

	dayOrders := api.Group("/day-orders")
	dayOrders.GET("/:year/:week", orderHandler.List)
	dayOrders.GET("/:year/:week/:day", orderHandler.Get)
	dayOrders.PATCH("/:year/:week/:day/status", orderHandler.UpdateStatus)
	dayOrders.PATCH("/:year/:week/:day/meals/:mealId/status", orderHandler.UpdateMealStatus)

	ingredients := api.Group("/ingredients")
	ingredients.GET("/:year/:week/:day", ingredientsHandler.Day)
	ingredients.POST("/combined", ingredientsHandler.Combined)

	stock := api.Group("/stock")
	stock.PUT("/:year/:week/combined", stockHandler.UpsertCombinedLine)
	stock.DELETE("/:year/:week/combined/:ingredientId", stockHandler.DeleteCombinedLine)
	stock.PUT("/:year/:week/:day", stockHandler.UpsertLine)
	stock.DELETE("/:year/:week/:day/:ingredientId", stockHandler.DeleteLine)

	templates := api.Group("/menu-templates")
	templates.GET("", templateHandler.List)
	templates.POST("", templateHandler.Create)
	templates.GET("/:id", templateHandler.Get)
	templates.PUT("/:id", templateHandler.Update)
	templates.DELETE("/:id", templateHandler.Delete)

	meals := api.Group("/meals")
	meals.GET("", mealHandler.List)
	meals.POST("", mealHandler.Create)
	meals.GET("/:id", mealHandler.Get)
	meals.PUT("/:id", mealHandler.Update)
	meals.DELETE("/:id", mealHandler.Delete)

	notifications := api.Group("/notifications")
	notifications.GET("/stream", notificationHandler.Stream)
}
