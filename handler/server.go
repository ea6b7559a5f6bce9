package handler

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/auth"
	"lendpool/handler/render"
	"lendpool/handler/rest"

	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

// Server server
type Server struct {
	cfg          *core.Config
	session      core.Session
	markets      core.IMarketStore
	positions    core.IPositionStore
	transactions core.TransactionStore
	marketz      core.IMarketService
	actionz      core.IActionService
	custody      core.ICustodyService
}

// New new server function
func New(
	cfg *core.Config,
	session core.Session,
	markets core.IMarketStore,
	positions core.IPositionStore,
	transactions core.TransactionStore,
	marketz core.IMarketService,
	actionz core.IActionService,
	custody core.ICustodyService,
) Server {
	return Server{
		cfg:          cfg,
		session:      session,
		markets:      markets,
		positions:    positions,
		transactions: transactions,
		marketz:      marketz,
		actionz:      actionz,
		custody:      custody,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(resetRoutePath)
	r.Use(render.WrapResponse(true))
	r.Use(auth.HandleAuthentication(s.session))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, twirp.NotFoundError("not found"))
	})

	r.Mount("/", rest.Handle(s.markets, s.positions, s.transactions, s.marketz, s.actionz, s.custody))
	return r
}

func resetRoutePath(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c := chi.RouteContext(ctx); c != nil {
			c.RoutePath = r.URL.Path
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
