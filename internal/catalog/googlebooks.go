package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/cache"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrNotFound = errors.New("volume not found")

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"
	volumeTTL      = 24 * time.Hour
	searchTTL      = 10 * time.Minute
)

// Volume is the catalog's view of a book, used to enrich suggestions.
type Volume struct {
	VolumeID      string   `json:"volume_id" msgpack:"volume_id"`
	Title         string   `json:"title" msgpack:"title"`
	Author        string   `json:"author" msgpack:"author"`
	Description   string   `json:"description" msgpack:"description"`
	CoverURL      string   `json:"cover_url" msgpack:"cover_url"`
	PageCount     int      `json:"page_count" msgpack:"page_count"`
	PublishedDate string   `json:"published_date" msgpack:"published_date"`
	ISBN13        string   `json:"isbn13" msgpack:"isbn13"`
	Categories    []string `json:"categories" msgpack:"categories"`
}

// Client is the read-only external catalog collaborator. Lookups are
// best-effort enrichment; callers must tolerate errors.
type Client interface {
	Lookup(ctx context.Context, volumeID string) (*Volume, error)
	Search(ctx context.Context, query string, limit int) ([]Volume, error)
}

type GoogleBooksClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	redis      *cache.RedisCache
}

// NewGoogleBooksClient builds a client against the public volumes API.
// redis may be nil; caching is then skipped.
func NewGoogleBooksClient(redis *cache.RedisCache) *GoogleBooksClient {
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("GOOGLE_BOOKS_BASE_URL")), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GoogleBooksClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(os.Getenv("GOOGLE_BOOKS_API_KEY")),
		redis:      redis,
	}
}

// volumeDoc mirrors the wire shape of a Google Books volume.
type volumeDoc struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Description         string   `json:"description"`
		PageCount           int      `json:"pageCount"`
		PublishedDate       string   `json:"publishedDate"`
		Categories          []string `json:"categories"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (d *volumeDoc) toVolume() Volume {
	v := Volume{
		VolumeID:      d.ID,
		Title:         d.VolumeInfo.Title,
		Description:   d.VolumeInfo.Description,
		PageCount:     d.VolumeInfo.PageCount,
		PublishedDate: d.VolumeInfo.PublishedDate,
		CoverURL:      d.VolumeInfo.ImageLinks.Thumbnail,
		Categories:    d.VolumeInfo.Categories,
	}
	if len(d.VolumeInfo.Authors) > 0 {
		v.Author = strings.Join(d.VolumeInfo.Authors, ", ")
	}
	for _, ident := range d.VolumeInfo.IndustryIdentifiers {
		if ident.Type == "ISBN_13" {
			v.ISBN13 = ident.Identifier
			break
		}
	}
	return v
}

func (c *GoogleBooksClient) Lookup(ctx context.Context, volumeID string) (*Volume, error) {
	volumeID = strings.TrimSpace(volumeID)
	if volumeID == "" {
		return nil, ErrNotFound
	}

	cacheKey := "catalog:volume:" + volumeID
	if c.redis != nil {
		if data, err := c.redis.Get(cacheKey); err == nil && data != nil {
			var v Volume
			if err := msgpack.Unmarshal(data, &v); err == nil {
				return &v, nil
			}
		}
	}

	reqURL := fmt.Sprintf("%s/volumes/%s", c.baseURL, url.PathEscape(volumeID))
	doc := volumeDoc{}
	if err := c.getJSON(ctx, reqURL, &doc); err != nil {
		return nil, err
	}
	if doc.ID == "" {
		return nil, ErrNotFound
	}

	v := doc.toVolume()
	if c.redis != nil {
		if data, err := msgpack.Marshal(&v); err == nil {
			_ = c.redis.Set(cacheKey, data, volumeTTL)
		}
	}
	return &v, nil
}

func (c *GoogleBooksClient) Search(ctx context.Context, query string, limit int) ([]Volume, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Volume{}, nil
	}
	if limit <= 0 || limit > 40 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("catalog:search:%d:%s", limit, strings.ToLower(query))
	if c.redis != nil {
		if data, err := c.redis.Get(cacheKey); err == nil && data != nil {
			var volumes []Volume
			if err := msgpack.Unmarshal(data, &volumes); err == nil {
				return volumes, nil
			}
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	reqURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())

	var result struct {
		Items []volumeDoc `json:"items"`
	}
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	volumes := make([]Volume, 0, len(result.Items))
	for i := range result.Items {
		volumes = append(volumes, result.Items[i].toVolume())
	}

	if c.redis != nil {
		if data, err := msgpack.Marshal(volumes); err == nil {
			_ = c.redis.Set(cacheKey, data, searchTTL)
		}
	}
	return volumes, nil
}

func (c *GoogleBooksClient) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	if c.apiKey != "" {
		sep := "?"
		if strings.Contains(reqURL, "?") {
			sep = "&"
		}
		reqURL += sep + "key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog responded %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
