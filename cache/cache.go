// Package cache holds bootstrapped curves keyed by their input quote set, so
// repeated pricing requests against unchanged market data skip the bootstrap.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/fxquant/fxlib/curve"
)

type CurveCache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

func New(maxCost int64, ttl time.Duration) (*CurveCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CurveCache{c: c, ttl: ttl}, nil
}

// Key identifies a cached curve: currency, method, and a fingerprint of the
// quote set the curve was built from. Any change in the quotes changes the
// fingerprint and misses the cache.
func Key(currency string, method curve.Method, quotes []curve.InstrumentQuote) string {
	return fmt.Sprintf("%s|%s|%s", currency, method, Fingerprint(quotes))
}

// Fingerprint hashes the quote set. Quote order is significant; callers pass
// the normalized (sorted) set.
func Fingerprint(quotes []curve.InstrumentQuote) string {
	h := sha256.New()
	var buf [8]byte
	for _, q := range quotes {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(q.TenorYears))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(q.Rate))
		h.Write(buf[:])
		h.Write([]byte(q.Source))
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func (cc *CurveCache) Get(key string) (*curve.Curve, bool) {
	v, ok := cc.c.Get(key)
	if !ok {
		return nil, false
	}
	c, ok := v.(*curve.Curve)
	return c, ok
}

func (cc *CurveCache) Set(key string, c *curve.Curve) {
	cc.c.SetWithTTL(key, c, 1, cc.ttl)
}

// GetOrBuild returns the cached curve for the quote set, bootstrapping and
// caching it on a miss.
func (cc *CurveCache) GetOrBuild(currency string, quotes []curve.InstrumentQuote, method curve.Method) (*curve.Curve, error) {
	key := Key(currency, method, quotes)
	if c, ok := cc.Get(key); ok {
		return c, nil
	}
	c, err := curve.Bootstrap(currency, quotes, method)
	if err != nil {
		return nil, err
	}
	cc.Set(key, c)
	return c, nil
}

// Wait blocks until pending writes are applied. Only needed by tests;
// ristretto admits asynchronously.
func (cc *CurveCache) Wait() { cc.c.Wait() }
