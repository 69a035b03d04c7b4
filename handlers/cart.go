package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shophub/models"
	"shophub/utils"
)

// Quantities above 99 per request are rejected, matching the detail page's
// quantity selector.
type AddToCartRequest struct {
	ProductID int `json:"product_id" binding:"required,min=1"`
	Quantity  int `json:"quantity" binding:"omitempty,min=1,max=99"`
}

// UpdateCartItemRequest takes a pointer so an explicit 0 is accepted. Zero
// and negative quantities remove the line.
type UpdateCartItemRequest struct {
	ProductID int  `json:"product_id" binding:"required,min=1"`
	Quantity  *int `json:"quantity" binding:"required,max=99"`
}

func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartResponse(currentSession(c).Cart.State()))
}

// AddToCart adds quantity units (default 1) of a catalog product.
func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, ok := h.resolveProduct(c, req.ProductID)
	if !ok {
		return
	}

	state := currentSession(c).Cart.AddItems(product, req.Quantity)
	c.JSON(http.StatusOK, h.cartResponse(state))
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := currentSession(c).Cart.UpdateQuantity(req.ProductID, *req.Quantity)
	c.JSON(http.StatusOK, h.cartResponse(state))
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, err := parseProductID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	state := currentSession(c).Cart.RemoveItem(id)
	c.JSON(http.StatusOK, h.cartResponse(state))
}

func (h *Handler) ClearCart(c *gin.Context) {
	state := currentSession(c).Cart.ClearCart()
	c.JSON(http.StatusOK, h.cartResponse(state))
}

// Checkout is not implemented: the storefront takes no payments.
func (h *Handler) Checkout(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "Checkout is not available"})
}

// resolveProduct finds a product in the loaded catalog, falling back to a
// single product lookup when the catalog is not loaded or lacks it.
func (h *Handler) resolveProduct(c *gin.Context, id int) (models.Product, bool) {
	if result := h.catalog.Result(); result.Generation > 0 {
		for _, product := range result.Products {
			if product.ID == id {
				return product, true
			}
		}
	}

	product, err := h.products.Product(c.Request.Context(), id)
	if err != nil {
		h.productError(c, err)
		return models.Product{}, false
	}
	return product, true
}

func (h *Handler) cartResponse(state models.CartState) gin.H {
	items := make([]models.CartLine, len(state.Items))
	for i, item := range state.Items {
		item.Product = h.images.WithImage(item.Product)
		items[i] = item
	}

	summary := models.NewOrderSummary(state)
	return gin.H{
		"items":      items,
		"total":      state.Total,
		"item_count": state.ItemCount,
		"summary": gin.H{
			"item_count": summary.ItemCount,
			"subtotal":   utils.FormatMoney(summary.Subtotal),
			"shipping":   "Free",
			"tax":        utils.FormatMoney(summary.Tax),
			"total":      utils.FormatMoney(summary.Total),
		},
	}
}
