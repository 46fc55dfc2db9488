package proxy

import (
	"context"
	"fmt"
	"sync"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/zai/internal/upstream"
)

// Cataloger is implemented by upstreams which can list their live models.
type Cataloger interface {
	ListModels(ctx context.Context) ([]upstream.ModelInfo, error)
}

// catalog caches the first successful model listing. Failures are not cached,
// the static model table is served instead and the next call retries.
type catalog struct {
	source Cataloger
	mu     sync.RWMutex
	models []upstream.ModelInfo
}

func (c *catalog) list(ctx context.Context) ([]upstream.ModelInfo, bool) {
	if c.source == nil {
		return nil, false
	}
	c.mu.RLock()
	cached := c.models
	c.mu.RUnlock()
	if cached != nil {
		return cached, true
	}

	fetched, err := c.source.ListModels(ctx)
	if err != nil {
		ancli.PrintWarn(fmt.Sprintf("failed to fetch model catalog, serving defaults: %v\n", err))
		return nil, false
	}
	c.mu.Lock()
	c.models = fetched
	c.mu.Unlock()
	return fetched, true
}

// lookup finds a catalog entry by provider id.
func (c *catalog) lookup(ctx context.Context, id string) (upstream.ModelInfo, bool) {
	entries, ok := c.list(ctx)
	if !ok {
		return upstream.ModelInfo{}, false
	}
	for _, m := range entries {
		if m.ID == id {
			return m, true
		}
	}
	return upstream.ModelInfo{}, false
}
