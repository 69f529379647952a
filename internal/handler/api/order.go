package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hatbazar/hatbazar/internal/domain"
)

type placeOrderPayload struct {
	Items []orderItemPayload `json:"items" validate:"required,min=1,dive"`
}

type orderItemPayload struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type orderStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=pending paid failed shipped delivered cancelled"`
}

// PlaceOrder creates a pending order for the calling user.
func (h *Handler) PlaceOrder(c echo.Context) error {
	var payload placeOrderPayload
	if err := c.Bind(&payload); err != nil {
		return domain.Invalid("api.order.place", "invalid request payload")
	}
	if err := c.Validate(&payload); err != nil {
		return err
	}

	items := make([]domain.PlaceOrderItem, len(payload.Items))
	for i, item := range payload.Items {
		items[i] = domain.PlaceOrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := h.Orders.Place(c.Request().Context(), items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// ListOrders returns the calling user's orders, newest first.
func (h *Handler) ListOrders(c echo.Context) error {
	orders, err := h.Orders.ListMine(c.Request().Context())
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetOrder returns one of the calling user's orders.
func (h *Handler) GetOrder(c echo.Context) error {
	order, err := h.Orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// CompletePayment charges a pending order through the payment provider.
func (h *Handler) CompletePayment(c echo.Context) error {
	order, err := h.Orders.Pay(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// AdminUpdateOrderStatus moves an order through its lifecycle.
func (h *Handler) AdminUpdateOrderStatus(c echo.Context) error {
	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return domain.Invalid("api.order.update_status", "invalid request payload")
	}
	if err := c.Validate(&payload); err != nil {
		return err
	}

	order, err := h.Orders.UpdateStatus(c.Request().Context(), c.Param("id"), domain.OrderStatus(payload.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
