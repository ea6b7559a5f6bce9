package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/request"
	"lendpool/handler/views"

	"github.com/fox-one/pkg/store"
	"github.com/go-chi/chi"
)

func openPositionHandler(actionSrv core.IActionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := request.NewContext(ctx).UserID()

		position, err := actionSrv.OpenPosition(ctx, chi.URLParam(r, "market_id"), userID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.PositionView(position, 0, 0))
	}
}

func positionHandler(marketStr core.IMarketStore, positionStr core.IPositionStore, marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := request.NewContext(ctx).UserID()

		market, err := findMarket(ctx, marketStr, chi.URLParam(r, "market_id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		position, err := positionStr.Find(ctx, market.MarketID, userID)
		if err != nil {
			if store.IsErrNotFound(err) {
				err = core.ErrPositionNotFound
			}

			render.Error(w, err)
			return
		}

		_, deposit, debt, err := marketSrv.Preview(ctx, market, position)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.PositionView(position, deposit, debt))
	}
}

func actionHandler(actionSrv core.IActionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := request.NewContext(ctx).UserID()

		action, ok := core.ParseActionType(chi.URLParam(r, "action"))
		if !ok {
			render.NotFoundRequest(w, core.ErrInvalidArgument)
			return
		}

		var params struct {
			TraceID string `json:"trace_id" valid:"uuid,required"`
			Amount  uint64 `json:"amount"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := actionSrv.Handle(ctx, &core.ActionRequest{
			TraceID:  params.TraceID,
			MarketID: chi.URLParam(r, "market_id"),
			UserID:   userID,
			Action:   action,
			Amount:   params.Amount,
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}
