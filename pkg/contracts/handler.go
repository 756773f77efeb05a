package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every service's HTTP handler so the shared
// application bootstrap can mount it.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
