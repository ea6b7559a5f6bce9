package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config lendpool config
type Config struct {
	App    App          `json:"app"`
	DB     db.Config    `json:"db"`
	Redis  Redis        `json:"redis"`
	Auth   Auth         `json:"auth"`
	Market MarketConfig `json:"market"`
	Admins []string     `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	Location string `json:"location"`
	// Endpoint api endpoint used by the cli
	Endpoint string `json:"endpoint"`
}

// Auth session config
type Auth struct {
	Secret   string `json:"secret"`
	Issuer   string `json:"issuer"`
	Capacity int    `json:"capacity"`
	// token lifetime in seconds
	TTL int64 `json:"ttl"`
}

// MarketConfig default parameters of new markets
type MarketConfig struct {
	FixedBorrowRateBps uint64 `json:"fixed_borrow_rate_bps"`
	MaxLTVBps          uint64 `json:"max_ltv_bps"`
}

// Redis shared cache, disabled when addr is empty
type Redis struct {
	Addr string `json:"addr"`
	DB   int    `json:"db"`
}
