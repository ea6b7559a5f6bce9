package hc

import (
	"net/http"
	"time"

	"lendpool/handler/render"

	"github.com/fox-one/pkg/store/db"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/twitchtv/twirp"
)

// Handle handle hc request, database is pinged when not nil
func Handle(ver string, database *db.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, database))
	return r
}

func handle(version string, database *db.DB) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		if database != nil {
			if err := database.View().DB().PingContext(r.Context()); err != nil {
				render.Error(w, twirp.NewError(twirp.Unavailable, "database unreachable"))
				return
			}
		}

		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":  uptime.String(),
			"version": version,
		})
	}
}
