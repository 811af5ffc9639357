package bizzio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/xelth-com/bizziosync/internal/config"
)

const defaultTimeout = 60 * time.Second

// Client talks to the RiznShop extension service of a Bizzio ERP
type Client struct {
	cfg        config.BizzioConfig
	HttpClient *http.Client
}

// NewClient creates a client bound to one set of credentials
func NewClient(cfg config.BizzioConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = config.DefaultBizzioEndpoint
	}
	return &Client{
		cfg:        cfg,
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// FetchArticles returns every article of the configured site
func (c *Client) FetchArticles(ctx context.Context, opts ArticleOptions) ([]Article, error) {
	body, err := buildArticlesRequest(c.cfg, opts)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, KindProducts, body)
	if err != nil {
		return nil, err
	}
	return resp.Articles, nil
}

// FetchCategories returns every site group of the configured site
func (c *Client) FetchCategories(ctx context.Context, includeImages bool) ([]Category, error) {
	body, err := buildSiteGroupsRequest(c.cfg, includeImages)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, KindCategories, body)
	if err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// TestConnection performs a lightweight site group listing without files
func (c *Client) TestConnection(ctx context.Context) error {
	body, err := buildSiteGroupsRequest(c.cfg, false)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, KindConnectionTest, body)
	return err
}

func (c *Client) call(ctx context.Context, kind Kind, body []byte) (resp *Response, err error) {
	start := time.Now()
	defer func() {
		observeRequest(kind, time.Since(start), err)
	}()

	if c.cfg.Debug {
		log.Printf("🐛 Bizzio %s request: %s", kind.Operation(), RedactCredentials(string(body)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: kind.Operation(), Err: err}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", kind.SOAPAction())

	httpResp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: kind.Operation(), Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Op: kind.Operation(), Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if c.cfg.Debug {
		log.Printf("🐛 Bizzio %s response (%d): %s", kind.Operation(), httpResp.StatusCode, RedactCredentials(string(raw)))
	}

	resp, err = Decode(kind, raw)
	if err != nil {
		// A SOAP fault carries its own message, anything else on a bad
		// status is reported as a transport failure
		var apiErr *APIError
		if httpResp.StatusCode >= 400 && !errors.As(err, &apiErr) {
			return nil, &TransportError{Op: kind.Operation(), Status: httpResp.StatusCode, Err: err}
		}
		return nil, err
	}
	return resp, nil
}
