package rest

import (
	"context"
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
	"github.com/go-chi/chi"
)

func allMarketsHandler(marketStr core.IMarketStore, positionStr core.IPositionStore, marketSrv core.IMarketService, custody core.ICustodyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		markets, e := marketStr.All(ctx)
		if e != nil {
			render.Error(w, e)
			return
		}

		marketViews := make([]*views.Market, 0, len(markets))
		for _, m := range markets {
			marketView, err := getMarketView(ctx, m, positionStr, marketSrv, custody)
			if err != nil {
				render.Error(w, err)
				return
			}

			marketViews = append(marketViews, marketView)
		}

		render.JSON(w, marketViews)
	}
}

func marketHandler(marketStr core.IMarketStore, positionStr core.IPositionStore, marketSrv core.IMarketService, custody core.ICustodyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		market, err := findMarket(ctx, marketStr, chi.URLParam(r, "market_id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		marketView, err := getMarketView(ctx, market, positionStr, marketSrv, custody)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, marketView)
	}
}

func createMarketHandler(marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params core.MarketCreate
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := marketSrv.Create(r.Context(), &params)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, market)
	}
}

func marketStatusHandler(marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Status string `json:"status" valid:"in(open|paused),required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		status, _ := core.ParseMarketStatus(params.Status)
		market, err := marketSrv.SetStatus(r.Context(), chi.URLParam(r, "market_id"), status)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, market)
	}
}

// getMarketView values the market at now, counters degrade to zero on errors
func getMarketView(ctx context.Context, market *core.Market, positionStr core.IPositionStore, marketSrv core.IMarketService, custody core.ICustodyService) (*views.Market, error) {
	log := logger.FromContext(ctx).WithField("market", market.MarketID)

	accrued, err := marketSrv.Accrued(ctx, market)
	if err != nil {
		return nil, err
	}

	liquidity, err := custody.Balance(ctx, market.BorrowVault)
	if err != nil {
		log.WithError(err).Errorln("read borrow vault balance")
	}

	suppliers, borrowers, err := positionStr.CountOfParticipants(ctx, market.MarketID)
	if err != nil {
		log.WithError(err).Errorln("positions.CountOfParticipants")
	}

	return views.MarketView(accrued, liquidity, suppliers, borrowers), nil
}

func findMarket(ctx context.Context, marketStr core.IMarketStore, marketID string) (*core.Market, error) {
	market, err := marketStr.Find(ctx, marketID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrMarketNotFound
		}

		return nil, err
	}

	return market, nil
}
