package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const termsCacheKey = "hifcm:terms"

// TermSource lists the subscription term slugs
type TermSource interface {
	Slugs(ctx context.Context) ([]string, error)
}

// TermProvider supplies the allowed subscribe taxonomies, cached in Redis
type TermProvider struct {
	source   TermSource
	rdb      *redis.Client
	ttl      time.Duration
	defaults []string
}

// NewTermProvider creates a provider. rdb may be nil to disable caching.
func NewTermProvider(source TermSource, rdb *redis.Client, ttl time.Duration, defaults []string) *TermProvider {
	return &TermProvider{
		source:   source,
		rdb:      rdb,
		ttl:      ttl,
		defaults: defaults,
	}
}

// Terms returns the allowed term slugs
func (p *TermProvider) Terms(ctx context.Context) ([]string, error) {
	if terms, ok := p.cached(ctx); ok {
		return terms, nil
	}

	terms, err := p.source.Slugs(ctx)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		terms = p.defaults
	}

	p.store(ctx, terms)
	return terms, nil
}

func (p *TermProvider) cached(ctx context.Context) ([]string, bool) {
	if p.rdb == nil {
		return nil, false
	}
	raw, err := p.rdb.Get(ctx, termsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Terms cache read failed: %v", err)
		}
		return nil, false
	}
	var terms []string
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil, false
	}
	return terms, true
}

func (p *TermProvider) store(ctx context.Context, terms []string) {
	if p.rdb == nil || p.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(terms)
	if err != nil {
		return
	}
	if err := p.rdb.Set(ctx, termsCacheKey, raw, p.ttl).Err(); err != nil {
		log.Printf("⚠️ Terms cache write failed: %v", err)
	}
}
