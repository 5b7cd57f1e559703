package middleware

import "github.com/aretw0/spiritual/pkg/ports"

// Middleware allows wrapping a ProfileStore to add behavior.
type Middleware func(ports.ProfileStore) ports.ProfileStore

// Chain wraps store with the middlewares. The first middleware is the outermost.
func Chain(store ports.ProfileStore, mws ...Middleware) ports.ProfileStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
