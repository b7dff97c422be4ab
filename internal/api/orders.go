package api

import (
	"fmt"

	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listOrders(c *gin.Context) {
	page, err := h.orders.Orders(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "orders", "Orders", page)
}

func (h *Handler) addOrder(c *gin.Context) {
	var form service.OrderForm
	if !h.bind(c, &form) {
		return
	}
	out, err := h.orders.Create(c.Request.Context(), form)
	h.finish(c, out, err)
}

// orderDetail shows one order, or sends the browser back to the list when
// the order does not exist
func (h *Handler) orderDetail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	page, out, err := h.orders.Detail(c.Request.Context(), id)
	if err != nil || page == nil {
		h.finish(c, out, err)
		return
	}
	h.render(c, "order_detail", fmt.Sprintf("Order %d", id), page)
}

func (h *Handler) addOrderLine(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var form service.OrderLineForm
	if !h.bind(c, &form) {
		return
	}
	out, err := h.orders.AddLine(c.Request.Context(), id, form)
	h.finish(c, out, err)
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var form service.StatusForm
	if !h.bind(c, &form) {
		return
	}
	out, err := h.orders.UpdateStatus(c.Request.Context(), id, form)
	h.finish(c, out, err)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.orders.Delete(c.Request.Context(), id)
	h.finish(c, out, err)
}
