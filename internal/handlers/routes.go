package handlers

import (
	"repairdesk/internal/middleware"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "repairdesk/docs"
)

// Handlers groups every HTTP handler set served by the API.
type Handlers struct {
	Inventory     *InventoryHandlers
	UsedInventory *UsedInventoryHandlers
	Quotations    *QuotationHandlers
	Jobs          *JobHandlers
	Warranty      *WarrantyHandlers
	Health        *HealthHandlers
}

// approverRoles may turn quotations into purchase orders.
var approverRoles = []string{"manager", "admin"}

// RegisterRoutes mounts the health probes, the API docs and the
// authenticated /v1 API on e.
func RegisterRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc) {
	// Health endpoints (no auth required)
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)
	e.GET("/health/live", h.Health.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := middleware.VersionRoute(e, "v1", auth)

	inventory := v1.Group("/inventory")
	inventory.POST("/addInventory", h.Inventory.AddInventory)
	inventory.GET("/:item_id", h.Inventory.GetInventory)

	batches := v1.Group("/inventoryBatch")
	batches.POST("/addBatch", h.Inventory.AddBatch)
	batches.GET("/getInventoryItemBatch/:item_id", h.Inventory.GetInventoryItemBatch)

	usage := v1.Group("/jobusedInventory")
	usage.POST("/add", h.UsedInventory.AddUsedInventory)
	usage.GET("/usedinventory/:job_id", h.UsedInventory.GetUsedInventory)
	usage.PUT("/update/:job_id/:item_id/:batch_no", h.UsedInventory.UpdateUsedInventory)
	usage.DELETE("/delete/:job_id/:item_id/:batch_no", h.UsedInventory.DeleteUsedInventory)

	approver := middleware.RequireRole(approverRoles...)
	quotations := v1.Group("/inventoryQuotation")
	quotations.POST("/add", h.Quotations.AddQuotation)
	quotations.GET("/quotations", h.Quotations.ListQuotations)
	quotations.GET("/quotations/:id", h.Quotations.GetQuotation)
	quotations.POST("/approve", h.Quotations.ApproveQuotation, approver)
	quotations.PUT("/quotations/approve/:id", h.Quotations.ConfirmApproval, approver)
	quotations.GET("/purchaseOrders/:quotation_id", h.Quotations.GetPurchaseOrder)

	jobs := v1.Group("/jobs")
	jobs.GET("/get/warrantyEligibleJobs", h.Jobs.WarrantyEligibleJobs)
	jobs.GET("/:job_id/warranty", h.Jobs.GetJobWarranty)
	jobs.POST("/lowStock/run", h.Jobs.TriggerLowStockCheck, middleware.RequireRole("admin"))

	warranty := v1.Group("/warranty")
	warranty.POST("/claim/:job_id", h.Warranty.ClaimWarranty)
	warranty.GET("/claim/:job_id", h.Warranty.GetClaim)
	warranty.POST("/claim/:job_id/evidence", h.Warranty.UploadEvidence)
	warranty.GET("/claim/:job_id/evidence", h.Warranty.ListEvidence)
}
