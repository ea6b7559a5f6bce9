package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	// HeaderKeyRequestID request id header key
	headerKeyRequestID = "X-Request-Id"
)

var runOnce sync.Once
var restyClient *resty.Client

// Client resty client
func Client() *resty.Client {
	runOnce.Do(func() {
		restyClient = resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Charset", "utf-8").
			SetTimeout(10 * time.Second)
	})

	return restyClient
}

// Request new resty request
func Request(ctx context.Context) *resty.Request {
	return Client().R().SetContext(ctx)
}

// WithRequestID resty request with request id
func WithRequestID(ctx context.Context, requestID string) *resty.Request {
	return Request(ctx).SetHeader(headerKeyRequestID, requestID)
}

// WithToken resty request authenticated with a bearer token
func WithToken(ctx context.Context, token string) *resty.Request {
	return Request(ctx).SetAuthToken(token)
}

// Error api error body
type Error struct {
	Status int    `json:"-"`
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Hint   string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %d %s", e.Status, e.Code, e.Msg)
}

// Execute do network request, resp receives the data field of a successful response
func Execute(request *resty.Request, method, url string, body interface{}, resp interface{}) (int, error) {
	logrus.Debugf("%s %s", method, url)

	if body != nil {
		request = request.SetBody(body)
	}

	r, err := request.Execute(strings.ToUpper(method), url)
	if err != nil {
		return 0, err
	}

	logrus.Debugln("resp.status:", r.Status())
	return r.StatusCode(), ParseResponse(r, resp)
}

// ParseResponse parse {"data": ...} on success or {"code", "msg"} on failure
func ParseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		e := &Error{Status: r.StatusCode()}
		if err := json.Unmarshal(r.Body(), e); err != nil {
			e.Msg = string(r.Body())
		}

		return e
	}

	if obj == nil {
		return nil
	}

	var data struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(r.Body(), &data); err != nil {
		return err
	}

	if len(data.Data) == 0 {
		return nil
	}

	return json.Unmarshal(data.Data, obj)
}
