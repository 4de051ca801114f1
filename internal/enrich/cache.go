package enrich

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mtlprog/suiledger/internal/domain"
)

// objectCache keeps recently fetched object snapshots for a short TTL so
// back-to-back cycles for overlapping accounts do not refetch the same objects.
type objectCache struct {
	c *cache.Cache
}

func newObjectCache(ttl time.Duration) *objectCache {
	return &objectCache{c: cache.New(ttl, 2*ttl)}
}

func (c *objectCache) get(id string) (domain.ObjectSnapshot, bool) {
	v, ok := c.c.Get(id)
	if !ok {
		return domain.ObjectSnapshot{}, false
	}
	obj, ok := v.(domain.ObjectSnapshot)
	return obj, ok
}

func (c *objectCache) set(obj domain.ObjectSnapshot) {
	c.c.Set(obj.ObjectID, obj, cache.DefaultExpiration)
}
