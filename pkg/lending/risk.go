package lending

import (
	"lendpool/core"

	"github.com/holiman/uint256"
)

var basisPoints = uint256.NewInt(BasisPoints)

// CheckLTV debt*10000 must not exceed collateral*maxLTVBps
func CheckLTV(collateral, debt, maxLTVBps uint64) error {
	lhs := new(uint256.Int).Mul(uint256.NewInt(debt), basisPoints)
	rhs := new(uint256.Int).Mul(uint256.NewInt(collateral), uint256.NewInt(maxLTVBps))
	if lhs.Gt(rhs) {
		return core.ErrExceedsMaximumLtv
	}

	return nil
}
