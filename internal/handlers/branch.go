package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qrkatalog_back_end/internal/models"
)

type branchRequest struct {
	Name    string `form:"name" json:"name"`
	Address string `form:"address" json:"address"`
}

func (h *Handler) ListBranches(c *gin.Context) {
	var branches []models.Branch
	if err := h.db.WithContext(c.Request.Context()).Order("id").Find(&branches).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, branches)
}

func (h *Handler) CreateBranch(c *gin.Context) {
	var req branchRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch name is required"})
		return
	}

	branch := models.Branch{Name: req.Name, Address: strings.TrimSpace(req.Address)}
	if err := h.db.WithContext(c.Request.Context()).Create(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "branch name already exists"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, branch)
}

// Dashboard returns every branch alongside every product, newest products
// first.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var branches []models.Branch
	if err := h.db.WithContext(ctx).Order("id").Find(&branches).Error; err != nil {
		respondError(c, err)
		return
	}

	var products []models.Product
	if err := h.db.WithContext(ctx).Order("id DESC").Find(&products).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"branches": branches, "products": products})
}

func (h *Handler) UpdateBranch(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}

	var branch models.Branch
	if err := h.db.WithContext(c.Request.Context()).First(&branch, branchID).Error; err != nil {
		respondError(c, err)
		return
	}

	var req branchRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch name is required"})
		return
	}

	branch.Name = req.Name
	branch.Address = strings.TrimSpace(req.Address)
	if err := h.db.WithContext(c.Request.Context()).Save(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "branch name already exists"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, branch)
}

// BranchDashboard returns a branch together with its products, newest first.
func (h *Handler) BranchDashboard(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}

	var branch models.Branch
	if err := h.db.WithContext(c.Request.Context()).First(&branch, branchID).Error; err != nil {
		respondError(c, err)
		return
	}

	var products []models.Product
	if err := h.db.WithContext(c.Request.Context()).
		Where("branch_id = ?", branch.ID).
		Order("id DESC").
		Find(&products).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"branch": branch, "products": products})
}

// DeleteBranch removes a branch with all its products and their language
// views. Stored objects are removed best-effort: a storage failure is logged
// and never blocks the database delete.
func (h *Handler) DeleteBranch(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var branch models.Branch
	if err := h.db.WithContext(ctx).Preload("Products").First(&branch, branchID).Error; err != nil {
		respondError(c, err)
		return
	}

	for i := range branch.Products {
		h.removeProductObjects(ctx, &branch.Products[i])
	}

	if err := h.db.WithContext(ctx).Delete(&branch).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "branch deleted"})
}

// removeProductObjects deletes a product's image and QR objects, logging and
// swallowing failures.
func (h *Handler) removeProductObjects(ctx context.Context, p *models.Product) {
	if p.Image != "" {
		if err := h.store.Remove(ctx, p.Image); err != nil {
			log.Printf("⚠️ Failed to remove image %s: %v", p.Image, err)
		}
	}
	if p.QRCode != "" {
		if err := h.store.Remove(ctx, p.QRCode); err != nil {
			log.Printf("⚠️ Failed to remove QR code %s: %v", p.QRCode, err)
		}
	}
}
