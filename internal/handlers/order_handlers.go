package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"jpashop/internal/common"
	"jpashop/internal/models"
	"jpashop/internal/services"

	"github.com/labstack/echo/v4"
)

// maxPageLimit bounds a single page requested over HTTP.
const maxPageLimit = 1000

// OrderHandlers handles HTTP requests for order reads
type OrderHandlers struct {
	orderService services.OrderQueryServiceInterface
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderQueryServiceInterface) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
	}
}

// RegisterRoutes mounts the order read endpoints on g
func (h *OrderHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.GetOrders)
	g.GET("/orders/:id", h.GetOrderByID)
	g.GET("/simple-orders", h.GetOrderSummaries)
}

// GetOrders handles GET /orders
func (h *OrderHandlers) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()

	strategy := services.StrategyToOneJoinPlusBatch
	if raw := c.QueryParam("strategy"); raw != "" {
		parsed, err := services.ParseStrategy(raw)
		if err != nil {
			return common.SendValidationError(c, "strategy", err.Error())
		}
		strategy = parsed
	}

	search, err := parseOrderSearch(c)
	if err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	page, err := parsePage(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	orders, err := h.orderService.FindOrders(ctx, strategy, search, page)
	if err != nil {
		return sendLoadError(c, err)
	}

	resp := map[string]interface{}{
		"orders":   orders,
		"strategy": strategy,
	}
	if page != nil {
		resp["limit"] = page.Limit
		resp["offset"] = page.Offset
	}
	return c.JSON(http.StatusOK, resp)
}

// GetOrderSummaries handles GET /simple-orders
func (h *OrderHandlers) GetOrderSummaries(c echo.Context) error {
	ctx := c.Request().Context()

	search, err := parseOrderSearch(c)
	if err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	page, err := parsePage(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	orders, err := h.orderService.FindOrderSummaries(ctx, search, page)
	if err != nil {
		return sendLoadError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

// GetOrderByID handles GET /orders/:id
func (h *OrderHandlers) GetOrderByID(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.FindOrder(ctx, orderID)
	if err != nil {
		return sendLoadError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func parseOrderSearch(c echo.Context) (models.OrderSearch, error) {
	var search models.OrderSearch
	if name := strings.TrimSpace(c.QueryParam("member_name")); name != "" {
		search.MemberName = &name
	}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			return models.OrderSearch{}, err
		}
		search.Status = &status
	}
	return search, nil
}

// parsePage returns nil when neither offset nor limit is given.
func parsePage(c echo.Context) (*models.Page, error) {
	offsetParam := c.QueryParam("offset")
	limitParam := c.QueryParam("limit")
	if offsetParam == "" && limitParam == "" {
		return nil, nil
	}

	page := &models.Page{Offset: 0, Limit: 100}
	if offsetParam != "" {
		o, err := strconv.Atoi(offsetParam)
		if err != nil {
			return nil, errors.New("offset must be an integer")
		}
		page.Offset = o
	}
	if limitParam != "" {
		l, err := strconv.Atoi(limitParam)
		if err != nil {
			return nil, errors.New("limit must be an integer")
		}
		if err := common.ValidatePositiveInteger(l, "limit", maxPageLimit); err != nil {
			return nil, err
		}
		page.Limit = l
	}
	if err := common.ValidatePage(page.Offset, page.Limit); err != nil {
		return nil, err
	}
	return page, nil
}

func sendLoadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidPagination), errors.Is(err, common.ErrInvalidCriteria):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, common.ErrOrderNotFound):
		return common.SendNotFoundError(c, "order")
	default:
		log.Printf("WARN: order read failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve orders")
	}
}
