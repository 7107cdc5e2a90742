package cartserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

// NotificationSource hands out buffered notifications once.
type NotificationSource interface {
	Drain() []cartports.Notification
}

// CartAPI wires HTTP transport with the cart bounded context service.
type CartAPI struct {
	service       cartports.Service
	notifications NotificationSource
}

// NewCartAPI creates a CartAPI. notifications may be nil, in which case the
// notifications endpoint always answers with an empty list.
func NewCartAPI(service cartports.Service, notifications NotificationSource) CartAPI {
	return CartAPI{service: service, notifications: notifications}
}

// Get /v1/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, carthttpmapper.FromCartView(api.service.Cart(c.Request.Context())))
}

// Post /v1/cart/items
// Adds one unit of a product, creating the line item when absent.
func (api *CartAPI) AddCartItem(c *gin.Context) {
	var payload carthttpmapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	if err := api.service.AddProduct(c.Request.Context(), payload.ProductID); err != nil {
		respondCartServiceError(c, err)
		return
	}
	api.GetCart(c)
}

// Patch /v1/cart/items/:productId
// Sets a line item to an exact amount. Amounts of zero or less are ignored.
func (api *CartAPI) UpdateCartItemAmount(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload carthttpmapper.UpdateAmountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := cartports.UpdateAmountInput{ProductID: id, Amount: *payload.Amount}
	if err := api.service.UpdateProductAmount(c.Request.Context(), input); err != nil {
		respondCartServiceError(c, err)
		return
	}
	api.GetCart(c)
}

// Delete /v1/cart/items/:productId
func (api *CartAPI) RemoveCartItem(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.RemoveProduct(c.Request.Context(), id); err != nil {
		respondCartServiceError(c, err)
		return
	}
	api.GetCart(c)
}

// Get /v1/cart/notifications
// Returns and clears pending notifications, oldest first.
func (api *CartAPI) DrainNotifications(c *gin.Context) {
	var pending []cartports.Notification
	if api.notifications != nil {
		pending = api.notifications.Drain()
	}
	c.JSON(http.StatusOK, carthttpmapper.FromNotifications(pending))
}

// Post /v1/cart/audit
// Re-checks line items against current stock without changing the cart.
func (api *CartAPI) AuditCartStock(c *gin.Context) {
	audit, err := api.service.AuditStock(c.Request.Context())
	if err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromStockAudit(audit))
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{name: "must be a positive integer"}))
		return 0, false
	}
	return id, true
}
