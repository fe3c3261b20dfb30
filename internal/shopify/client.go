package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"
)

const apiVersion = "2024-01"

// Client implements the Shopify OAuth handshake and the Admin REST API
// calls the sync needs.
type Client struct {
	apiKey     string
	apiSecret  string
	scopes     string
	appURL     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(apiKey, apiSecret, scopes, appURL string, log *zap.Logger) *Client {
	return &Client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		scopes:    scopes,
		appURL:    appURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

var shopDomainRE = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*\.myshopify\.com$`)

// ValidShopDomain guards OAuth redirects against open-redirect abuse.
func ValidShopDomain(shop string) bool {
	return shopDomainRE.MatchString(shop)
}

// AuthURL builds the shop's OAuth consent URL. The state nonce is verified
// on the callback.
func (c *Client) AuthURL(shop, state string) string {
	redirectURI := c.appURL + "/api/v1/shopify/callback"
	q := url.Values{}
	q.Set("client_id", c.apiKey)
	q.Set("scope", c.scopes)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	return fmt.Sprintf("https://%s/admin/oauth/authorize?%s", shop, q.Encode())
}

// ExchangeToken trades the OAuth code for a permanent access token.
func (c *Client) ExchangeToken(ctx context.Context, shop, code string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.apiKey,
		"client_secret": c.apiSecret,
		"code":          code,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("https://%s/admin/oauth/access_token", shop), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("shopify token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("shopify token exchange returned %d: %s", resp.StatusCode, string(b))
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("shopify token exchange: empty access_token")
	}
	return out.AccessToken, nil
}

type Variant struct {
	ID    int64  `json:"id"`
	Price string `json:"price"`
}

type Image struct {
	Src string `json:"src"`
}

type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Tags        string    `json:"tags"`
	Status      string    `json:"status"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
}

var pageInfoRE = regexp.MustCompile(`<[^>]*[?&]page_info=([^&>]+)[^>]*>;\s*rel="next"`)

// FetchProducts pulls the shop's full catalog, following Link-header
// cursor pagination in pages of 250.
func (c *Client) FetchProducts(ctx context.Context, shop, accessToken string) ([]Product, error) {
	var all []Product
	pageInfo := ""

	for {
		u := fmt.Sprintf("https://%s/admin/api/%s/products.json?limit=250", shop, apiVersion)
		if pageInfo != "" {
			u += "&page_info=" + url.QueryEscape(pageInfo)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Shopify-Access-Token", accessToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("shopify products fetch: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("shopify products fetch returned %d: %s", resp.StatusCode, string(b))
		}

		var page struct {
			Products []Product `json:"products"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		link := resp.Header.Get("Link")
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		all = append(all, page.Products...)

		pageInfo = nextPageInfo(link)
		if pageInfo == "" {
			break
		}
	}

	return all, nil
}

func nextPageInfo(linkHeader string) string {
	m := pageInfoRE.FindStringSubmatch(linkHeader)
	if m == nil {
		return ""
	}
	return m[1]
}
