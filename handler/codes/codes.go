package codes

import (
	"errors"
	"strconv"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// With with specified error
func With(err error, code int) error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// Get get error code
func Get(code twirp.ErrorCode) int {
	switch code {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(code)
	}
}

// Twirp convert err into a twirp error carrying the custom code
func Twirp(err error) twirp.Error {
	if twerr, ok := err.(twirp.Error); ok {
		if twerr.Meta(CustomCodeKey) == "" {
			return twerr.WithMeta(CustomCodeKey, strconv.Itoa(Get(twerr.Code())))
		}

		return twerr
	}

	var code core.ErrorCode
	if errors.As(err, &code) {
		twerr := twirp.NewError(twirpCode(code), err.Error())
		return twerr.WithMeta(CustomCodeKey, code.String())
	}

	if errors.Is(err, db.ErrOptimisticLock) {
		return twirp.NewError(twirp.Aborted, "concurrent update, retry").WithMeta(CustomCodeKey, strconv.Itoa(Get(twirp.Aborted)))
	}

	return With(err, Get(twirp.Internal)).(twirp.Error)
}

func twirpCode(code core.ErrorCode) twirp.ErrorCode {
	switch code {
	case core.ErrInvalidAmount, core.ErrInvalidArgument, core.ErrMathOverflow:
		return twirp.InvalidArgument
	case core.ErrMarketNotFound, core.ErrPositionNotFound:
		return twirp.NotFound
	case core.ErrPositionExists:
		return twirp.AlreadyExists
	case core.ErrExceedsMaximumLtv, core.ErrInsufficientLiquidity, core.ErrTransferFailed, core.ErrProtocolPaused:
		return twirp.FailedPrecondition
	case core.ErrUnauthorized:
		return twirp.PermissionDenied
	default:
		return twirp.Internal
	}
}
