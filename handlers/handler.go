package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"shophub/models"
	"shophub/services"
)

// Catalog is the loaded product catalog the listing endpoints read from.
type Catalog interface {
	Start(ctx context.Context) <-chan struct{}
	Reload(ctx context.Context) <-chan struct{}
	Result() services.LoadResult
}

// ProductFetcher looks up a single product for the detail view.
type ProductFetcher interface {
	Product(ctx context.Context, id int) (models.Product, error)
}

type Options struct {
	Catalog       Catalog
	Products      ProductFetcher
	Sessions      *services.Sessions
	Images        *services.ImageCDN
	SessionSecret []byte
	SessionTTL    time.Duration
	SecureCookies bool
	Logger        log.FieldLogger
}

// Handler serves the storefront API. It holds no state of its own; carts and
// listings live in the sessions it was given.
type Handler struct {
	catalog       Catalog
	products      ProductFetcher
	sessions      *services.Sessions
	images        *services.ImageCDN
	sessionSecret []byte
	sessionTTL    time.Duration
	secureCookies bool
	logger        log.FieldLogger
}

func New(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}
	if opts.Sessions == nil {
		opts.Sessions = services.NewSessions(opts.Logger)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &Handler{
		catalog:       opts.Catalog,
		products:      opts.Products,
		sessions:      opts.Sessions,
		images:        opts.Images,
		sessionSecret: opts.SessionSecret,
		sessionTTL:    opts.SessionTTL,
		secureCookies: opts.SecureCookies,
		logger:        opts.Logger,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	api.Use(h.SessionMiddleware())
	{
		products := api.Group("/products")
		{
			products.GET("", h.GetProducts)
			products.GET("/:id", h.GetProduct)
			products.POST("/filters/clear", h.ClearFilters)
		}

		api.GET("/categories", h.GetCategories)
		api.POST("/catalog/reload", h.ReloadCatalog)

		cart := api.Group("/cart")
		{
			cart.GET("", h.GetCart)
			cart.POST("/add", h.AddToCart)
			cart.PUT("/update", h.UpdateCartItem)
			cart.DELETE("/remove/:id", h.RemoveFromCart)
			cart.DELETE("/clear", h.ClearCart)
			cart.POST("/checkout", h.Checkout)
		}
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"catalog": h.catalog.Result().Status,
	})
}

// readyCatalog returns the loaded catalog. The first request waits for the
// initial load; a failed load is reported until someone reloads it.
func (h *Handler) readyCatalog(c *gin.Context) (services.LoadResult, bool) {
	ctx := c.Request.Context()
	result := h.catalog.Result()

	if result.Generation == 0 && result.Status != services.LoadFailed {
		done := h.catalog.Start(context.WithoutCancel(ctx))
		select {
		case <-done:
		case <-ctx.Done():
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Loading products..."})
			return result, false
		}
		result = h.catalog.Result()
	}

	if result.Generation == 0 {
		message := result.Message
		if message == "" {
			message = services.MsgProductsLoadFailed
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": message})
		return result, false
	}
	return result, true
}
