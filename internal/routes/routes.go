package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"qrkatalog_back_end/internal/handlers"
	"qrkatalog_back_end/internal/middleware"
)

func Register(r *gin.Engine, h *handlers.Handler, store sessions.Store) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)

	// Public catalog flow (QR entry → language selection → detail).
	r.GET("/branch/:branch_id/product/:product_id", h.ProductEntry)
	r.GET("/branch/:branch_id/select-language/:product_id", h.SelectLanguage)
	r.GET("/branch/:branch_id/product/:product_id/:lang", h.ProductDetail)

	admin := r.Group("/admin", middleware.RequireAdmin(store, handlers.AdminSessionName))
	{
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/branches", h.ListBranches)
		admin.POST("/branches", h.CreateBranch)
		admin.PUT("/branches/:branch_id", h.UpdateBranch)
		admin.GET("/branches/:branch_id/dashboard", h.BranchDashboard)
		admin.DELETE("/branches/:branch_id", h.DeleteBranch)

		admin.POST("/branches/:branch_id/products", h.CreateProduct)
		admin.PUT("/branches/:branch_id/products/:product_id", h.UpdateProduct)
		admin.DELETE("/branches/:branch_id/products/:product_id", h.DeleteProduct)
		admin.POST("/branches/:branch_id/products/:product_id/qr", h.IssueQR)

		admin.GET("/branch/:branch_id/stats", h.BranchStats)
		admin.POST("/upload", h.Upload)
	}
}
