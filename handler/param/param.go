package param

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/schema"
	"github.com/spf13/cast"
	"github.com/twitchtv/twirp"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}()

// Binding decode query (GET) or json body into v and validate it
func Binding(r *http.Request, v interface{}) error {
	switch r.Method {
	case http.MethodGet, http.MethodDelete:
		if err := r.ParseForm(); err != nil {
			return twirp.InvalidArgumentError("query", err.Error())
		}

		if err := decoder.Decode(v, r.Form); err != nil {
			return twirp.InvalidArgumentError("query", err.Error())
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
			return twirp.InvalidArgumentError("body", err.Error())
		}
	}

	if _, err := govalidator.ValidateStruct(v); err != nil {
		return twirp.InvalidArgumentError("params", err.Error())
	}

	return nil
}

// Int query value as int, def when missing or malformed
func Int(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	i, err := cast.ToIntE(v)
	if err != nil {
		return def
	}

	return i
}

// Int64 query value as int64, def when missing or malformed
func Int64(r *http.Request, key string, def int64) int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	i, err := cast.ToInt64E(v)
	if err != nil {
		return def
	}

	return i
}
