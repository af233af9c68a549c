package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// GoogleBooksClient finds covers through the Google Books volumes search.
type GoogleBooksClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewGoogleBooksClient() *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: "https://www.googleapis.com",
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title      string   `json:"title"`
		Authors    []string `json:"authors"`
		ImageLinks struct {
			SmallThumbnail string `json:"smallThumbnail"`
			Thumbnail      string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

// LookupCover returns the thumbnail of the first search result that has one.
func (c *GoogleBooksClient) LookupCover(ctx context.Context, title, author string) (string, error) {
	if title == "" {
		return "", ErrNotFound
	}

	q := "intitle:" + title
	if author != "" {
		q += " inauthor:" + author
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	searchURL := fmt.Sprintf("%s/books/v1/volumes?%s", c.baseURL, url.Values{"q": {q}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	for _, item := range result.Items {
		if thumb := item.VolumeInfo.ImageLinks.Thumbnail; thumb != "" {
			return secureURL(thumb), nil
		}
	}

	return "", ErrNotFound
}
