// Package transport is the client's only way to the game server. It turns
// calls into JSON HTTP requests and every failure into a classified *Error.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Request is the uniform outbound shape. Body, when non-nil, is sent as JSON.
type Request struct {
	Op      string
	Method  string
	Path    string
	Body    any
	Headers http.Header
}

// WithBearer returns a copy of r carrying token in the Authorization header.
// An empty token leaves the header off so the server sees a missing credential.
func (r Request) WithBearer(token string) Request {
	h := r.Headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	r.Headers = h
	return r
}

// Response is the uniform inbound shape of a 2xx reply.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Logger     *zap.Logger
}

// NewClient builds a Client for baseURL whose requests give up after timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Logger:     logger,
	}
}

// errorBody covers both message keys the server uses: request errors send
// "message", token failures send "msg".
type errorBody struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Msg != "" {
		return b.Msg
	}
	return b.Message
}

// Do sends req and, on a 2xx, decodes the body into out (if out is non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) (Response, error) {
	op := req.Op
	if op == "" {
		op = req.Method + " " + req.Path
	}
	log := c.logger().With(zap.String("op", op))

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return Response{}, &Error{Op: op, Kind: KindNetwork, Err: err}
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.BaseURL+req.Path, body)
	if err != nil {
		return Response{}, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return Response{}, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, &Error{Op: op, Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}
	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	response := Response{Status: resp.StatusCode, Headers: resp.Header, Body: data}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.text()
		return response, &Error{
			Op:     op,
			Kind:   classify(resp.StatusCode, msg),
			Status: resp.StatusCode,
			Msg:    msg,
		}
	}

	if out != nil {
		if len(data) == 0 {
			return response, &Error{Op: op, Kind: KindDecode, Status: resp.StatusCode, Err: errors.New("empty body")}
		}
		if err := json.Unmarshal(data, out); err != nil {
			return response, &Error{Op: op, Kind: KindDecode, Status: resp.StatusCode, Err: err}
		}
	}
	return response, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
