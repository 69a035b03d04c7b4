package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"shophub/models"
	"shophub/services"
)

// ProductsRequest is the listing query. Every call carries the full filter;
// a parameter left out takes its default value.
type ProductsRequest struct {
	Category string `form:"category" json:"category"`
	MinPrice string `form:"min_price" json:"min_price"`
	MaxPrice string `form:"max_price" json:"max_price"`
	SortBy   string `form:"sort_by" json:"sort_by"` // name, price-asc, price-desc, rating
	Page     string `form:"page" json:"page"`
}

// ProductsResponse is one page of the catalog plus what the filter sidebar
// needs to render.
type ProductsResponse struct {
	models.ProductPage
	Filters    models.FilterSpec `json:"filters"`
	Categories []string          `json:"categories"`
}

// GetProducts applies the requested filter to the session's listing. A
// filter different from the session's current one always starts at page 1,
// whatever page was asked for.
func (h *Handler) GetProducts(c *gin.Context) {
	var req ProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid search parameters",
			"details": err.Error(),
		})
		return
	}

	spec, err := parseFilter(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid search parameters",
			"details": err.Error(),
		})
		return
	}

	result, ok := h.readyCatalog(c)
	if !ok {
		return
	}

	session := currentSession(c)
	session.SyncCatalog(result)

	browser := session.Browser
	if !browser.Filter().Equal(spec) {
		browser.SetFilter(spec)
	} else if req.Page != "" {
		browser.SetPage(validatePage(req.Page))
	}

	h.renderProducts(c, session, result)
}

// ClearFilters restores the default filter for the session.
func (h *Handler) ClearFilters(c *gin.Context) {
	result, ok := h.readyCatalog(c)
	if !ok {
		return
	}

	session := currentSession(c)
	session.SyncCatalog(result)
	session.Browser.ResetFilter()

	h.renderProducts(c, session, result)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := parseProductID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.products.Product(c.Request.Context(), id)
	if err != nil {
		h.productError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.images.WithImage(product))
}

func (h *Handler) GetCategories(c *gin.Context) {
	result, ok := h.readyCatalog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": result.Categories})
}

// ReloadCatalog fetches the catalog again. This is the only way out of a
// failed load.
func (h *Handler) ReloadCatalog(c *gin.Context) {
	ctx := c.Request.Context()
	done := h.catalog.Reload(context.WithoutCancel(ctx))

	select {
	case <-done:
	case <-ctx.Done():
		c.JSON(http.StatusAccepted, gin.H{"status": services.LoadLoading})
		return
	}

	result := h.catalog.Result()
	if result.Status != services.LoadReady {
		c.JSON(http.StatusBadGateway, gin.H{"error": result.Message, "status": result.Status})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     result.Status,
		"products":   len(result.Products),
		"categories": len(result.Categories),
	})
}

func (h *Handler) renderProducts(c *gin.Context, session *services.Session, result services.LoadResult) {
	view := session.Browser.View()
	for i := range view.Products {
		view.Products[i] = h.images.WithImage(view.Products[i])
	}

	c.JSON(http.StatusOK, ProductsResponse{
		ProductPage: view,
		Filters:     session.Browser.Filter(),
		Categories:  result.Categories,
	})
}

// productError maps a single product lookup failure to a response.
func (h *Handler) productError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": services.MsgProductNotFound})
		return
	}
	h.logger.WithError(err).Error("failed to fetch product")
	c.JSON(http.StatusBadGateway, gin.H{"error": services.MsgProductLoadFailed})
}

func parseFilter(req ProductsRequest) (models.FilterSpec, error) {
	spec := models.DefaultFilterSpec()
	spec.Category = req.Category

	if req.MinPrice != "" {
		minPrice, err := decimal.NewFromString(req.MinPrice)
		if err != nil {
			return spec, errors.Wrap(err, "min_price")
		}
		spec.MinPrice = minPrice
	}
	if req.MaxPrice != "" {
		maxPrice, err := decimal.NewFromString(req.MaxPrice)
		if err != nil {
			return spec, errors.Wrap(err, "max_price")
		}
		spec.MaxPrice = maxPrice
	}

	spec.SortBy = validateSortBy(req.SortBy)
	return spec, nil
}

func validateSortBy(sortBy string) models.SortBy {
	if s := models.SortBy(sortBy); s.Valid() {
		return s
	}
	return models.SortByName
}

func validatePage(pageStr string) int {
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		return p
	}
	return 1
}
