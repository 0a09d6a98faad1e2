package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PabloIb21/teslo-orders-api/internal/adapter/repo"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

type CatalogHandler struct {
	catalog usecase.CatalogRepo
}

func NewCatalogHandler(catalog usecase.CatalogRepo) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) GetProductBySlug(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	product, err := h.catalog.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, product)
}
