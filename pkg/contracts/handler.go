package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by each API domain (identity, cars, bookings) so
// the application can mount them all on one router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
