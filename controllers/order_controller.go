package controllers

import (
	"context"
	"errors"
	"net/http"

	"marketplace-api/middleware"
	"marketplace-api/models"
	repositories "marketplace-api/repository"
	"marketplace-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IOrderService is the order use-case surface the controller needs.
type IOrderService interface {
	PlaceOrder(ctx context.Context, buyerID uint, req *services.CreateOrderRequest) (*models.Order, error)
	GetMyOrders(ctx context.Context, buyerID uint) ([]models.Order, error)
}

type OrderController struct {
	orderService IOrderService
	logger       *zap.Logger
}

func NewOrderController(orderService IOrderService, logger *zap.Logger) *OrderController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderController{orderService: orderService, logger: logger}
}

// productSummary is the projection of a product into an order line.
type productSummary struct {
	Title     string `json:"title"`
	Vegetable string `json:"vegetable"`
	Unit      string `json:"unit"`
}

type orderItemResponse struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     int64           `json:"price"`
	Product   *productSummary `json:"product,omitempty"`
}

type orderResponse struct {
	ID          uint                `json:"id"`
	OrderNumber string              `json:"orderNumber"`
	BuyerID     uint                `json:"buyerId"`
	Total       int64               `json:"total"`
	Status      string              `json:"status"`
	CreatedAt   string              `json:"createdAt"`
	Items       []orderItemResponse `json:"items"`
}

// CreateOrder handles POST /orders
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	buyerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	order, err := oc.orderService.PlaceOrder(ctx.Request.Context(), buyerID, &req)
	if err != nil {
		oc.respondPlacementError(ctx, buyerID, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   toOrderResponse(order),
	})
}

// respondPlacementError maps engine errors onto HTTP responses. The
// business failures are client-correctable 400s carrying the reason;
// anything unexpected is logged and hidden behind a generic 500.
func (oc *OrderController) respondPlacementError(ctx *gin.Context, buyerID uint, err error) {
	var invalidCart *services.InvalidCartError
	var notFound *services.ProductNotFoundError
	var noStock *services.InsufficientStockError

	switch {
	case errors.As(err, &invalidCart),
		errors.As(err, &notFound),
		errors.As(err, &noStock):
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, repositories.ErrStockConflict):
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Stock changed while placing order, please retry"})
	default:
		oc.logger.Error("order placement failed",
			zap.Uint("buyer_id", buyerID),
			zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// GetMyOrders handles GET /orders/mine
func (oc *OrderController) GetMyOrders(ctx *gin.Context) {
	buyerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, err := oc.orderService.GetMyOrders(ctx.Request.Context(), buyerID)
	if err != nil {
		oc.logger.Error("failed to fetch orders",
			zap.Uint("buyer_id", buyerID),
			zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	responses := make([]orderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": responses})
}

func toOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		BuyerID:     order.BuyerID,
		Total:       order.Total,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Items:       make([]orderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		ir := orderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			ir.Product = &productSummary{
				Title:     item.Product.Title,
				Vegetable: item.Product.Vegetable,
				Unit:      item.Product.Unit,
			}
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
