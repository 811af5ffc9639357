package bizzio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xelth-com/bizziosync/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.BizzioConfig{
		Endpoint: srv.URL,
		Database: "shop_db",
		Username: "api<user>",
		Password: "s3cret",
		SiteID:   "7",
	})
}

func TestFetchArticlesRequest(t *testing.T) {
	var gotAction, gotContentType, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, articlesResponseXML)
	})

	articles, err := client.FetchArticles(context.Background(), DefaultArticleOptions())
	if err != nil {
		t.Fatalf("FetchArticles failed: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("Expected 2 articles, got %d", len(articles))
	}

	if gotAction != "http://tempuri.org/IRiznShopExtService/GetArticles" {
		t.Errorf("Unexpected SOAPAction %q", gotAction)
	}
	if gotContentType != "text/xml; charset=utf-8" {
		t.Errorf("Unexpected Content-Type %q", gotContentType)
	}

	for _, want := range []string{
		"<biz:Database>shop_db</biz:Database>",
		"<biz:Username>api&lt;user&gt;</biz:Username>",
		"<tem:ID_Site>7</tem:ID_Site>",
		"<tem:AvailableOnly>false</tem:AvailableOnly>",
		"<tem:IsFiles>true</tem:IsFiles>",
		"<tem:IsQtyByWarehouses>false</tem:IsQtyByWarehouses>",
		`<tem:Barcodes xsi:nil="true"`,
	} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("Request body missing %q", want)
		}
	}
}

func TestFetchCategoriesRequest(t *testing.T) {
	var gotAction, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, siteGroupsResponseXML)
	})

	categories, err := client.FetchCategories(context.Background(), true)
	if err != nil {
		t.Fatalf("FetchCategories failed: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("Expected 2 categories, got %d", len(categories))
	}
	if gotAction != "http://tempuri.org/IRiznShopExtService/GetSiteGroups" {
		t.Errorf("Unexpected SOAPAction %q", gotAction)
	}
	if !strings.Contains(gotBody, "<tem:IsFiles>true</tem:IsFiles>") {
		t.Error("Expected IsFiles=true")
	}
}

func TestTestConnection(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, siteGroupsResponseXML)
	})

	if err := client.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection failed: %v", err)
	}
	if !strings.Contains(gotBody, "<tem:IsFiles>false</tem:IsFiles>") {
		t.Error("Connection test should not request files")
	}
}

func TestTestConnectionAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, apiErrorResponseXML)
	})

	err := client.TestConnection(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.Kind != KindConnectionTest {
		t.Errorf("Expected connection_test kind, got %s", apiErr.Kind)
	}
}

func TestTransportErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gateway down", http.StatusBadGateway)
		})
		_, err := client.FetchCategories(context.Background(), false)
		var transportErr *TransportError
		if !errors.As(err, &transportErr) || transportErr.Status != http.StatusBadGateway {
			t.Fatalf("Expected TransportError with 502, got %v", err)
		}
	})

	t.Run("soap fault on 500", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, faultResponseXML)
		})
		_, err := client.FetchCategories(context.Background(), false)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("Expected APIError for SOAP fault, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			io.WriteString(w, siteGroupsResponseXML)
		})
		client.HttpClient.Timeout = 20 * time.Millisecond
		_, err := client.FetchCategories(context.Background(), false)
		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			t.Fatalf("Expected TransportError, got %v", err)
		}
	})
}

func TestRedactCredentials(t *testing.T) {
	body, err := buildSiteGroupsRequest(config.BizzioConfig{
		Database: "shop_db",
		Username: "admin",
		Password: "hunter2",
		SiteID:   "3",
	}, false)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	redacted := RedactCredentials(string(body))
	for _, secret := range []string{"shop_db", "admin", "hunter2"} {
		if strings.Contains(redacted, secret) {
			t.Errorf("Redacted payload still contains %q", secret)
		}
	}
	if strings.Count(redacted, "[REDACTED]") != 3 {
		t.Errorf("Expected 3 redactions, got %d", strings.Count(redacted, "[REDACTED]"))
	}
	if !strings.Contains(redacted, "<tem:ID_Site>3</tem:ID_Site>") {
		t.Error("Non-credential fields should be preserved")
	}
}
