// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

package store

import (
	"fmt"
	"strings"

	"github.com/tomtom215/reviewsync/internal/config"
)

// Type names a Store backend.
type Type string

const (
	TypeBadger Type = "badger"
	TypeRedis  Type = "redis"
	TypeMemory Type = "memory"
)

// ParseType maps a configuration string to a Type. Unknown values map to badger.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeRedis:
		return TypeRedis
	case TypeMemory:
		return TypeMemory
	default:
		return TypeBadger
	}
}

// Open creates the backend selected by cfg.Type.
func Open(cfg *config.StoreConfig) (Store, error) {
	switch ParseType(cfg.Type) {
	case TypeRedis:
		return OpenRedis(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case TypeMemory:
		return NewMemoryStore(), nil
	default:
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger store requires a path")
		}
		return OpenBadger(cfg.Path)
	}
}
