// Package handlers provides HTTP request handlers for the stockyard API.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/stockyardhq/stockyard/internal/server/cache"
	"github.com/stockyardhq/stockyard/internal/store"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	store      *store.Store
	cache      *cache.Cache
	logger     *zerolog.Logger
	ingestRoot string
	startTime  time.Time
}

// New creates a new Handlers instance. ingestRoot is the directory tree the
// ingest endpoint scans for workbooks.
func New(st *store.Store, cache *cache.Cache, logger *zerolog.Logger, ingestRoot string, startTime time.Time) *Handlers {
	return &Handlers{
		store:      st,
		cache:      cache,
		logger:     logger,
		ingestRoot: ingestRoot,
		startTime:  startTime,
	}
}
