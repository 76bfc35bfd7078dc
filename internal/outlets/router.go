package outlets

import (
	"github.com/gin-gonic/gin"
)

// SetupOutletRoutes expects rg to be behind JWT auth
func SetupOutletRoutes(rg *gin.RouterGroup, controller Controller) {
	rg.GET("/auth/my-outlets", controller.MyOutlets)    // GET /api/v1/auth/my-outlets
	rg.PUT("/outlets/current", controller.SelectOutlet) // PUT /api/v1/outlets/current

	state := rg.Group("/state")
	{
		state.GET("/:store", controller.GetState)  // GET /api/v1/state/auth-store
		state.PUT("/:store", controller.SaveState) // PUT /api/v1/state/outlet-store
	}
}
