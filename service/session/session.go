package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lendpool/core"

	"github.com/asaskevich/govalidator"
	"github.com/bluele/gcache"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTTL = 24 * time.Hour
	cacheTTL   = time.Minute
)

// New new session
func New(cfg *core.Config) core.Session {
	return newSession(cfg, gcache.NewRealClock())
}

func newSession(cfg *core.Config, clock gcache.Clock) core.Session {
	ttl := time.Duration(cfg.Auth.TTL) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}

	s := &session{
		cfg: cfg,
		ttl: ttl,
		sf:  &singleflight.Group{},
		now: clock.Now,
	}

	if capacity := cfg.Auth.Capacity; capacity > 0 {
		return &cacheSession{
			session: s,
			tokens:  gcache.New(capacity).LRU().Clock(clock).Build(),
		}
	}

	return s
}

type session struct {
	cfg *core.Config
	ttl time.Duration
	sf  *singleflight.Group
	now func() time.Time
}

type login struct {
	user      *core.User
	expiresAt time.Time
}

func (s *session) Login(ctx context.Context, accessToken string) (*core.User, error) {
	l, err := s.login(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return l.user, nil
}

func (s *session) login(ctx context.Context, accessToken string) (*login, error) {
	v, err, _ := s.sf.Do(accessToken, func() (interface{}, error) {
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}

			return []byte(s.cfg.Auth.Secret), nil
		}, jwt.WithIssuer(s.cfg.Auth.Issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
		if err != nil {
			return nil, err
		}

		if govalidator.IsNull(claims.Subject) {
			return nil, errors.New("missing subject")
		}

		return &login{
			user: &core.User{
				UserID: claims.Subject,
				Admin:  s.cfg.IsAdmin(claims.Subject),
			},
			expiresAt: claims.ExpiresAt.Time,
		}, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*login), nil
}

func (s *session) Issue(ctx context.Context, userID string) (string, error) {
	if govalidator.IsNull(userID) {
		return "", core.ErrInvalidArgument
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.cfg.Auth.Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.Secret))
}

type cacheSession struct {
	*session
	tokens gcache.Cache
}

func (s *cacheSession) Login(ctx context.Context, accessToken string) (*core.User, error) {
	if v, err := s.tokens.Get(accessToken); err == nil {
		if user, ok := v.(*core.User); ok {
			return user, nil
		}
	}

	l, err := s.session.login(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	// never outlive the token
	if ttl := l.expiresAt.Sub(s.now()); ttl > 0 {
		if ttl > cacheTTL {
			ttl = cacheTTL
		}

		_ = s.tokens.SetWithExpire(accessToken, l.user, ttl)
	}

	return l.user, nil
}
