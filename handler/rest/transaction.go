package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
)

// response market transactions, paged by row id
func transactionsHandler(transactionStr core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			MarketID string `json:"market_id"`
			UserID   string `json:"user_id"`
		}

		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		limit := param.Int(r, "limit", 500)
		if limit <= 0 || limit > 500 {
			limit = 500
		}

		transactions, e := transactionStr.List(ctx, core.TransactionQuery{
			MarketID: params.MarketID,
			UserID:   params.UserID,
			FromID:   param.Int64(r, "offset", 0),
			Limit:    limit,
		})
		if e != nil {
			render.Error(w, e)
			return
		}

		render.JSON(w, transactions)
	}
}
