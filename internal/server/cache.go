package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
)

// evalCache memoizes evaluations by the hash of the canonical response JSON.
// Evaluation is deterministic, so entries never go stale within a rules
// version.
type evalCache struct {
	engine *scoring.Engine
	cache  *lru.Cache[string, scoring.ResultBundle]
}

// newEvalCache returns a cache holding up to size bundles. A size of zero
// disables caching.
func newEvalCache(engine *scoring.Engine, size int) (*evalCache, error) {
	c := &evalCache{engine: engine}
	if size > 0 {
		cache, err := lru.New[string, scoring.ResultBundle](size)
		if err != nil {
			return nil, fmt.Errorf("create evaluate cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Evaluate returns the bundle for rs and whether it came from the cache.
func (c *evalCache) Evaluate(rs quiz.ResponseSet) (scoring.ResultBundle, bool) {
	if c.cache == nil {
		return c.engine.Evaluate(rs), false
	}
	key, err := responseKey(rs)
	if err != nil {
		return c.engine.Evaluate(rs), false
	}
	// Callers own what they get back, so the cached copy is never handed out.
	if bundle, ok := c.cache.Get(key); ok {
		return bundle.Clone(), true
	}
	bundle := c.engine.Evaluate(rs)
	c.cache.Add(key, bundle.Clone())
	return bundle, false
}

func (c *evalCache) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// responseKey hashes the canonical encoding of rs. ResponseSet encodes with
// sorted keys and normalized multi-choice values, so equal sets share a key.
func responseKey(rs quiz.ResponseSet) (string, error) {
	b, err := json.Marshal(rs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(scoring.RulesVersion+"\x00"), b...))
	return hex.EncodeToString(sum[:]), nil
}
