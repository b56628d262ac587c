// Package linkpreview получает метаданные ссылки (заголовок, описание, картинку)
// у внешнего сервиса. Любая ошибка выключает превью: возвращается nil.
package linkpreview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"jotpad_go/logger"

	"github.com/patrickmn/go-cache"
)

const linkModule = "linkpreview"

// maxBodySize ограничивает ответ сервиса превью.
const maxBodySize = 1 << 20

// Preview - метаданные ссылки.
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// apiResponse - ответ в формате microlink.
type apiResponse struct {
	Status string `json:"status"`
	Data   struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Image       *struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache
	log     logger.ILogger
}

// NewClient создает клиент. Удачные превью кэшируются на ttl.
func NewClient(baseURL string, timeout, ttl time.Duration, log logger.ILogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cache:   cache.New(ttl, 2*ttl),
		log:     log,
	}
}

// Fetch возвращает превью ссылки или nil, если его получить не удалось.
func (c *Client) Fetch(ctx context.Context, link string) *Preview {
	if !isHTTPURL(link) {
		return nil
	}
	if x, found := c.cache.Get(link); found {
		return x.(*Preview)
	}

	preview, err := c.fetch(ctx, link)
	if err != nil {
		c.log.Debug(linkModule, "Link preview unavailable", map[string]interface{}{"url": link, "error": err.Error()})
		return nil
	}
	c.cache.Set(link, preview, cache.DefaultExpiration)
	return preview
}

func (c *Client) fetch(ctx context.Context, link string) (*Preview, error) {
	endpoint := c.baseURL + "/?url=" + url.QueryEscape(link)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("service status %q", body.Status)
	}

	preview := &Preview{
		URL:         body.Data.URL,
		Title:       body.Data.Title,
		Description: body.Data.Description,
	}
	if preview.URL == "" {
		preview.URL = link
	}
	if body.Data.Image != nil {
		preview.Image = body.Data.Image.URL
	}
	if preview.Title == "" && preview.Description == "" {
		return nil, fmt.Errorf("empty metadata")
	}
	return preview, nil
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// FirstURL возвращает первую http(s) ссылку в тексте записи.
func FirstURL(text string) string {
	link := urlPattern.FindString(text)
	return strings.TrimRight(link, ".,;:!?)")
}

func isHTTPURL(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
