package services

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"shophub/models"
)

// User facing messages for failed loads. Every failure reason maps to the
// same message.
const (
	MsgProductsLoadFailed = "Failed to load products. Please try again later."
	MsgProductLoadFailed  = "Failed to load product. Please try again later."
	MsgProductNotFound    = "Product not found"
)

type LoadStatus string

const (
	LoadIdle    LoadStatus = "idle"
	LoadLoading LoadStatus = "loading"
	LoadReady   LoadStatus = "ready"
	LoadFailed  LoadStatus = "failed"
)

// CatalogSource is what the loader and the handlers need from the catalog API.
type CatalogSource interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id int) (models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// LoadResult is the outcome of loading the product list and the categories.
// Generation increases with every successful load so holders of an older
// product list can tell it was replaced.
type LoadResult struct {
	Status     LoadStatus       `json:"status"`
	Products   []models.Product `json:"products"`
	Categories []string         `json:"categories"`
	Message    string           `json:"message,omitempty"`
	Generation uint64           `json:"generation"`
	Err        error            `json:"-"`
}

// CatalogLoader loads the catalog in the background and keeps the latest
// result for callers to poll. A failed load is kept until Reload is called;
// nothing is retried automatically.
type CatalogLoader struct {
	source CatalogSource
	logger log.FieldLogger

	mu         sync.RWMutex
	result     LoadResult
	done       chan struct{}
	generation uint64
}

func NewCatalogLoader(source CatalogSource, logger log.FieldLogger) *CatalogLoader {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &CatalogLoader{
		source: source,
		logger: logger,
		result: LoadResult{Status: LoadIdle},
	}
}

// Load fetches products and categories concurrently and waits for both.
func (l *CatalogLoader) Load(ctx context.Context) LoadResult {
	var (
		products   []models.Product
		categories []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = l.source.Products(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = l.source.Categories(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		l.logger.WithError(err).Error("failed to load catalog")
		return LoadResult{
			Status:  LoadFailed,
			Message: MsgProductsLoadFailed,
			Err:     err,
		}
	}

	return LoadResult{
		Status:     LoadReady,
		Products:   products,
		Categories: categories,
	}
}

// Start begins a background load unless one is running or has already
// succeeded, and returns a channel closed when that load completes.
func (l *CatalogLoader) Start(ctx context.Context) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done != nil {
		return l.done
	}
	return l.startLocked(ctx)
}

// Reload begins a new background load unless one is already running.
func (l *CatalogLoader) Reload(ctx context.Context) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.result.Status == LoadLoading {
		return l.done
	}
	return l.startLocked(ctx)
}

// Result returns the latest load result.
func (l *CatalogLoader) Result() LoadResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.result
}

func (l *CatalogLoader) startLocked(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	previous := l.result
	l.done = done
	l.result = LoadResult{
		Status:     LoadLoading,
		Products:   previous.Products,
		Categories: previous.Categories,
		Generation: previous.Generation,
	}

	go func() {
		defer close(done)
		result := l.Load(ctx)

		l.mu.Lock()
		defer l.mu.Unlock()
		if result.Status == LoadReady {
			l.generation++
			result.Generation = l.generation
		}
		l.result = result
		l.logger.WithFields(log.Fields{
			"status":     result.Status,
			"products":   len(result.Products),
			"categories": len(result.Categories),
		}).Info("catalog load finished")
	}()

	return done
}
