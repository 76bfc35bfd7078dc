package restaurants

import (
	"outletdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRestaurantRoutes expects restaurant to be /outlets/:outletID/restaurant behind JWT and outlet access checks
func SetupRestaurantRoutes(restaurant *gin.RouterGroup, controller *Controller) {
	categories := restaurant.Group("/categories")
	{
		categories.GET("", controller.ListMenuCategories)  // GET /api/v1/outlets/:outletID/restaurant/categories
		categories.GET("/:id", controller.GetMenuCategory) // GET /api/v1/outlets/:outletID/restaurant/categories/:id
		manage := categories.Group("", middleware.RequireManager())
		manage.POST("", controller.CreateMenuCategory)
		manage.PUT("/:id", controller.UpdateMenuCategory)
		manage.DELETE("/:id", controller.DeleteMenuCategory)
	}

	subCategories := restaurant.Group("/sub-categories")
	{
		subCategories.GET("", controller.ListMenuSubCategories)  // GET /api/v1/outlets/:outletID/restaurant/sub-categories?category_id=
		subCategories.GET("/:id", controller.GetMenuSubCategory) // GET /api/v1/outlets/:outletID/restaurant/sub-categories/:id
		manage := subCategories.Group("", middleware.RequireManager())
		manage.POST("", controller.CreateMenuSubCategory)
		manage.PUT("/:id", controller.UpdateMenuSubCategory)
		manage.DELETE("/:id", controller.DeleteMenuSubCategory)
	}

	menu := restaurant.Group("/menu-items")
	{
		menu.GET("", controller.ListMenuItems)   // GET /api/v1/outlets/:outletID/restaurant/menu-items?category=&sub_category=&dietary=veg
		menu.GET("/:id", controller.GetMenuItem) // GET /api/v1/outlets/:outletID/restaurant/menu-items/:id
		manage := menu.Group("", middleware.RequireManager())
		manage.POST("", controller.CreateMenuItem)
		manage.PUT("/:id", controller.UpdateMenuItem)
		manage.DELETE("/:id", controller.DeleteMenuItem)
	}

	orders := restaurant.Group("/orders")
	{
		orders.GET("", controller.ListOrders)                // GET /api/v1/outlets/:outletID/restaurant/orders?status=pending
		orders.POST("", controller.CreateOrder)              // POST /api/v1/outlets/:outletID/restaurant/orders
		orders.GET("/:id", controller.GetOrder)              // GET /api/v1/outlets/:outletID/restaurant/orders/:id
		orders.PUT("/:id", controller.UpdateOrder)           // PUT /api/v1/outlets/:outletID/restaurant/orders/:id
		orders.POST("/:id/advance", controller.AdvanceOrder) // POST /api/v1/outlets/:outletID/restaurant/orders/:id/advance
		orders.DELETE("/:id", middleware.RequireManager(), controller.DeleteOrder)
	}

	restaurant.GET("/kot", controller.GetKOT) // GET /api/v1/outlets/:outletID/restaurant/kot
}
