package internal

import "github.com/gorilla/mux"

// Handlers is an http application with handlers
type Handlers interface {
	AddHandlers(*mux.Router)
}
