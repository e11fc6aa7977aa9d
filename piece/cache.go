package piece

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jsphweid/voicelead/analyzer"
	"github.com/jsphweid/voicelead/model"
)

// DerivationKey identifies one cached result of a piece: the analyzers that
// produced it, in order, and the settings each of them ran with.
type DerivationKey struct {
	Chain    string
	Settings string
}

func internalKey(name string) DerivationKey {
	return DerivationKey{Chain: "_" + name}
}

// Extend appends one stage to the key.
func (k DerivationKey) Extend(tag analyzer.Tag, s analyzer.Settings) DerivationKey {
	if k.Chain == "" {
		return DerivationKey{Chain: tag.String(), Settings: s.Key()}
	}
	return DerivationKey{Chain: k.Chain + ">" + tag.String(), Settings: k.Settings + "|" + s.Key()}
}

func (k DerivationKey) String() string {
	if k.Settings == "" || strings.Trim(k.Settings, "|") == "" {
		return k.Chain
	}
	return k.Chain + "{" + k.Settings + "}"
}

type entry struct {
	done chan struct{}
	data model.Data
	err  error
}

// cache computes each key at most once. Callers asking for a key being
// computed wait for that computation. A failed computation is forgotten so a
// later call can try again.
type cache struct {
	mu      sync.Mutex
	entries map[DerivationKey]*entry
}

func newCache() *cache {
	return &cache{entries: make(map[DerivationKey]*entry)}
}

func (c *cache) get(k DerivationKey, compute func() (model.Data, error)) (model.Data, error) {
	c.mu.Lock()
	if e, ok := c.entries[k]; ok {
		c.mu.Unlock()
		<-e.done
		return e.data, e.err
	}
	e := &entry{done: make(chan struct{})}
	c.entries[k] = e
	c.mu.Unlock()

	func() {
		defer func() {
			if r := recover(); r != nil {
				e.data, e.err = nil, fmt.Errorf("computing %v: %v", k, r)
			}
		}()
		e.data, e.err = compute()
	}()
	if e.err != nil {
		c.mu.Lock()
		delete(c.entries, k)
		c.mu.Unlock()
	}
	close(e.done)
	return e.data, e.err
}

func (c *cache) has(k DerivationKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[k]
	return ok
}

// keys lists the cached keys in no particular order.
func (c *cache) keys() []DerivationKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make([]DerivationKey, 0, len(c.entries))
	for k := range c.entries {
		res = append(res, k)
	}
	return res
}
