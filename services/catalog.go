package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"shophub/models"
)

// DefaultCatalogURL is the public product API the storefront reads from.
const DefaultCatalogURL = "https://fakestoreapi.com"

var (
	// ErrLoadFailed covers every way a catalog request can fail: transport
	// errors, non-2xx responses and unreadable bodies.
	ErrLoadFailed = errors.New("catalog load failed")
	// ErrProductNotFound is returned when the API answers a product lookup
	// successfully but without a product.
	ErrProductNotFound = errors.New("product not found")
)

// CatalogClient reads products and categories from the remote catalog API.
type CatalogClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     log.FieldLogger
}

// NewCatalogClient creates a client for baseURL. An empty baseURL uses
// DefaultCatalogURL.
func NewCatalogClient(baseURL string, httpClient *http.Client) *CatalogClient {
	if baseURL == "" {
		baseURL = DefaultCatalogURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CatalogClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
		Logger:     log.StandardLogger(),
	}
}

// Products fetches every product.
func (c *CatalogClient) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, emptyBodyFailed(err, "/products")
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Product fetches a single product by id.
func (c *CatalogClient) Product(ctx context.Context, id int) (models.Product, error) {
	var product *models.Product
	err := c.get(ctx, fmt.Sprintf("/products/%d", id), &product)
	if errors.Is(err, io.EOF) || (err == nil && product == nil) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return *product, nil
}

// Categories fetches the category names.
func (c *CatalogClient) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.get(ctx, "/products/categories", &categories); err != nil {
		return nil, emptyBodyFailed(err, "/products/categories")
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// get decodes the JSON body of GET path into out. Failures are returned as
// ErrLoadFailed, except an empty 2xx body which surfaces io.EOF so callers can
// tell "nothing there" from a broken request.
func (c *CatalogClient) get(ctx context.Context, path string, out interface{}) error {
	url := c.BaseURL + path
	logger := c.Logger.WithField("url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.WithError(err).Error("failed to create catalog request")
		return errors.Wrapf(ErrLoadFailed, "create request %s", path)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("catalog request failed")
		return errors.Wrapf(ErrLoadFailed, "get %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.WithField("status", resp.StatusCode).Error("catalog request returned non-success status")
		return errors.Wrapf(ErrLoadFailed, "get %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		logger.WithError(err).Error("failed to decode catalog response")
		return errors.Wrapf(ErrLoadFailed, "decode %s: %v", path, err)
	}
	return nil
}

func emptyBodyFailed(err error, path string) error {
	if errors.Is(err, io.EOF) {
		return errors.Wrapf(ErrLoadFailed, "get %s: empty body", path)
	}
	return err
}
