package rest

import (
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/auth"
	"lendpool/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	marketStore core.IMarketStore,
	positionStore core.IPositionStore,
	transactionStore core.TransactionStore,
	marketService core.IMarketService,
	actionService core.IActionService,
	custody core.ICustodyService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/transactions", transactionsHandler(transactionStore))

	router.Route("/markets", func(r chi.Router) {
		r.Get("/", allMarketsHandler(marketStore, positionStore, marketService, custody))
		r.Get("/{market_id}", marketHandler(marketStore, positionStore, marketService, custody))

		r.With(auth.RequireAdmin).Post("/", createMarketHandler(marketService))
		r.With(auth.RequireAdmin).Put("/{market_id}/status", marketStatusHandler(marketService))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Post("/{market_id}/positions", openPositionHandler(actionService))
			r.Get("/{market_id}/positions/me", positionHandler(marketStore, positionStore, marketService))
			r.Post("/{market_id}/{action}", actionHandler(actionService))
		})
	})

	router.Route("/accounts/me", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/", accountHandler(custody))
		r.Get("/transfers", transfersHandler(custody))
	})

	return router
}
