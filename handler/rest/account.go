package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/request"

	"github.com/fox-one/pkg/store"
)

type accountParams struct {
	AssetID string `json:"asset_id" valid:"uuid"`
}

// accountHandler lists the caller's accounts, or the one of asset_id
func accountHandler(custody core.ICustodyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := request.NewContext(ctx).UserID()

		var params accountParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.AssetID == "" {
			accounts, err := custody.List(ctx, userID)
			if err != nil {
				render.Error(w, err)
				return
			}

			render.JSON(w, accounts)
			return
		}

		account, err := custody.Find(ctx, userID, params.AssetID)
		if err != nil && store.IsErrNotFound(err) {
			account, err = &core.Account{OwnerID: userID, AssetID: params.AssetID}, nil
		}

		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, account)
	}
}

func transfersHandler(custody core.ICustodyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			AssetID string `json:"asset_id" valid:"uuid,required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		transfers, err := custody.Transfers(ctx, request.NewContext(ctx).UserID(), params.AssetID, param.Int(r, "limit", 100))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, transfers)
	}
}
