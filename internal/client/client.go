package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/api/dto"
	"github.com/RoyceAzure/lab/pickup/internal/cart"
)

// APIError 非 2xx 回應, Message 為伺服器回傳的 error
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Menu(ctx context.Context) ([]dto.MenuItemDTO, error) {
	var res dto.MenuResponse
	if err := c.do(ctx, http.MethodGet, "/api/menu", nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

type placeOrderBody struct {
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone"`
	Cart         []cart.PayloadLine `json:"cart"`
}

// PlaceOrder 只送出 id 與數量
func (c *Client) PlaceOrder(ctx context.Context, name, phone string, lines []cart.PayloadLine) (*dto.PlaceOrderResponse, error) {
	if lines == nil {
		lines = []cart.PayloadLine{}
	}
	var res dto.PlaceOrderResponse
	err := c.do(ctx, http.MethodPost, "/api/order", placeOrderBody{
		CustomerName: name,
		Phone:        phone,
		Cart:         lines,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
