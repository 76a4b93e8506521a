package client

import (
	"context"
	"maps"
	"sync"

	"go.uber.org/zap"

	"github.com/shamank/odoo-sdk-go/pkg/model"
	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
)

// FieldAttributes are requested from fields_get.
var FieldAttributes = []string{"string", "type", "required", "readonly", "relation", "selection", "help"}

// FieldsCache memoises fields_get per model. Entries are never evicted;
// concurrent misses on the same model may both fetch.
type FieldsCache struct {
	caller  Caller
	metrics *Metrics

	mu     sync.RWMutex
	fields map[string]model.Fields
}

// NewFieldsCache returns an empty cache fetching through caller. m may be nil.
func NewFieldsCache(caller Caller, m *Metrics) *FieldsCache {
	return &FieldsCache{
		caller:  caller,
		metrics: m,
		fields:  make(map[string]model.Fields),
	}
}

// Fields returns the field schema of modelName, fetching it on a miss or
// when forceRefresh is set. The returned map is a copy owned by the caller.
func (c *FieldsCache) Fields(ctx context.Context, modelName string, forceRefresh bool) (model.Fields, error) {
	if !forceRefresh {
		c.mu.RLock()
		f, ok := c.fields[modelName]
		c.mu.RUnlock()
		if ok {
			c.metrics.observeCache(true)
			return maps.Clone(f), nil
		}
	}
	c.metrics.observeCache(false)

	reply, err := c.caller.Execute(ctx, modelName, "fields_get", nil, map[string]any{
		"attributes": FieldAttributes,
	})
	if err != nil {
		return nil, err
	}
	f, err := model.ParseFields(reply)
	if err != nil {
		return nil, rpcerr.Data(modelName, err.Error())
	}

	c.mu.Lock()
	c.fields[modelName] = f
	c.mu.Unlock()
	zap.L().Debug("cached field schema", zap.String("model", modelName), zap.Int("fields", len(f)))
	return maps.Clone(f), nil
}

// Invalidate drops the cached schema of modelName.
func (c *FieldsCache) Invalidate(modelName string) {
	c.mu.Lock()
	delete(c.fields, modelName)
	c.mu.Unlock()
}

// Len returns the number of cached models.
func (c *FieldsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fields)
}
