// Package embcache memoizes query embeddings in a key-value store.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/securephotos/internal/db"
	"github.com/kailas-cloud/securephotos/internal/domain"
)

const keyPrefix = "securephotos:emb:"

// Lookup outcomes reported on the results counter.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

var errCorruptEntry = errors.New("corrupt cache entry")

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config scopes and expires cached vectors.
type Config struct {
	Model string        // embedding deployment; part of every key
	TTL   time.Duration // <= 0 keeps entries forever
}

// Embedder wraps another domain.Embedder. Cache failures never fail a call:
// they are logged and the inner embedder answers instead.
type Embedder struct {
	inner   domain.Embedder
	store   store
	cfg     Config
	results *prometheus.CounterVec
	logger  *zap.Logger

	inflight singleflight.Group
}

// New creates a caching embedder. results may be nil.
func New(inner domain.Embedder, s store, cfg Config, results *prometheus.CounterVec, logger *zap.Logger) *Embedder {
	return &Embedder{inner: inner, store: s, cfg: cfg, results: results, logger: logger}
}

// Embed serves text from the cache or embeds it once, even under concurrent
// identical queries. A cached answer reports zero tokens.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := e.key(text)

	if vec := e.lookup(ctx, key); vec != nil {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	v, err, _ := e.inflight.Do(key, func() (any, error) {
		res, err := e.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(res.Embedding) > 0 {
			if err := e.store.SetWithTTL(ctx, key, encode(res.Embedding), e.cfg.TTL); err != nil {
				e.logger.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return res, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	return v.(domain.EmbeddingResult), nil
}

func (e *Embedder) lookup(ctx context.Context, key string) []float32 {
	data, err := e.store.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		e.count(resultMiss)
		return nil
	case err != nil:
		e.count(resultError)
		e.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}

	vec, err := decode(data)
	if err != nil {
		e.count(resultError)
		e.logger.Warn("Embedding cache entry discarded", zap.String("key", key), zap.Error(err))
		return nil
	}
	e.count(resultHit)
	return vec
}

func (e *Embedder) count(result string) {
	if e.results != nil {
		e.results.WithLabelValues(result).Inc()
	}
}

func (e *Embedder) key(text string) string {
	sum := sha256.Sum256([]byte(e.cfg.Model + "\x00" + text))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// encode lays out a vector as a little-endian uint32 length followed by float32 bits.
func encode(vec []float32) []byte {
	buf := make([]byte, 4+4*len(vec))
	binary.LittleEndian.PutUint32(buf, uint32(len(vec)))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[4+4*i:], math.Float32bits(f))
	}
	return buf
}

func decode(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", errCorruptEntry, len(data))
	}
	n := binary.LittleEndian.Uint32(data)
	if n == 0 || uint64(len(data)) != 4+4*uint64(n) {
		return nil, fmt.Errorf("%w: header says %d floats in %d bytes", errCorruptEntry, n, len(data))
	}
	vec := make([]float32, n)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4+4*i:]))
	}
	return vec, nil
}
