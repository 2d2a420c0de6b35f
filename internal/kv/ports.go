// Package kv defines the durable key-value medium the stores mirror to.
package kv

import (
	"context"
	"errors"
)

// Logical keys. Each holds one whole JSON document.
const (
	ExpensesKey = "expenses_v1"
	PrefsKey    = "prefs_v1"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kv store closed")

// Ports for outbound adapters.
type (
	Reader interface {
		// Get returns the value stored under key; ok is false when absent.
		Get(ctx context.Context, key string) (value string, ok bool, err error)
	}

	Writer interface {
		// Set overwrites the whole value stored under key.
		Set(ctx context.Context, key, value string) error
		Delete(ctx context.Context, key string) error
	}

	Store interface {
		Reader
		Writer
		Close() error
	}
)
