package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/PabloIb21/teslo-orders-api/internal/adapter/http/middleware"
	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

type OrderHandler struct {
	create  *usecase.CreateOrder
	queries *usecase.OrderQueries
}

func NewOrderHandler(create *usecase.CreateOrder, queries *usecase.OrderQueries) *OrderHandler {
	return &OrderHandler{create: create, queries: queries}
}

type createOrderReq struct {
	OrderItems []struct {
		ProductID string          `json:"productId" binding:"required"`
		Quantity  int             `json:"quantity" binding:"required"`
		Size      string          `json:"size"`
		Price     decimal.Decimal `json:"price"`
	} `json:"orderItems" binding:"required"`
	Total           decimal.Decimal        `json:"total" binding:"required"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}

// CreateOrder translates the checkout payload into the use case input. The
// claimed total is verified server-side; the per-item prices are carried only
// as a display snapshot.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	userID, _ := middleware.Identity(c)

	items := make([]domain.LineItem, len(req.OrderItems))
	for i, it := range req.OrderItems {
		items[i] = domain.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			UnitPrice: it.Price,
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	order, err := h.create.Execute(ctx, usecase.CreateOrderInput{
		UserID:          userID,
		Items:           items,
		ClaimedTotal:    req.Total,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	userID, role := middleware.Identity(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	order, err := h.queries.GetOrder(ctx, c.Param("id"), userID, role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, _ := middleware.Identity(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	orders, err := h.queries.ListUserOrders(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// ListAllOrders backs the admin maintenance grid.
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	summaries, err := h.queries.ListAllOrders(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	if summaries == nil {
		summaries = []usecase.OrderSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}
