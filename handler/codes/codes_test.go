package codes

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/twitchtv/twirp"
)

func TestTwirp(t *testing.T) {
	cases := []struct {
		err    error
		code   twirp.ErrorCode
		custom string
		status int
	}{
		{err: core.ErrExceedsMaximumLtv, code: twirp.FailedPrecondition, custom: "100104", status: http.StatusPreconditionFailed},
		{err: fmt.Errorf("%w: no balance", core.ErrTransferFailed), code: twirp.FailedPrecondition, custom: "100107", status: http.StatusPreconditionFailed},
		{err: core.ErrMarketNotFound, code: twirp.NotFound, custom: "100100", status: http.StatusNotFound},
		{err: core.ErrInvalidAmount, code: twirp.InvalidArgument, custom: "100101", status: http.StatusBadRequest},
		{err: core.ErrPositionExists, code: twirp.AlreadyExists, custom: "100103", status: http.StatusConflict},
		{err: db.ErrOptimisticLock, code: twirp.Aborted, custom: "409", status: http.StatusConflict},
		{err: twirp.InvalidArgumentError("amount", "bad"), code: twirp.InvalidArgument, custom: "100001", status: http.StatusBadRequest},
		{err: errors.New("boom"), code: twirp.Internal, custom: "500", status: http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			twerr := Twirp(c.err)
			assert.Equal(t, c.code, twerr.Code())
			assert.Equal(t, c.custom, twerr.Meta(CustomCodeKey))
			assert.Equal(t, c.status, twirp.ServerHTTPStatusFromErrorCode(twerr.Code()))
		})
	}
}
