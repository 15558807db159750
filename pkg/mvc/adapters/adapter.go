// Package adapters mounts a dispatcher on third-party HTTP engines.
//
// Every adapter forwards all methods and paths to a single http.Handler,
// so routing stays with the dispatcher.
package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// WebServer is an HTTP engine that can host one catch-all handler
type WebServer interface {
	// Mount routes every request to h
	Mount(h http.Handler)

	Start(addr string) error
	Stop(ctx context.Context) error

	Name() string
}

// NewAdapter returns a default adapter for the named engine
func NewAdapter(name string) (WebServer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "echo":
		return NewDefaultEchoAdapter(), nil
	case "gin":
		return NewDefaultGinAdapter(), nil
	case "fiber":
		return NewDefaultFiberAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown web server %q (want echo, gin or fiber)", name)
	}
}
