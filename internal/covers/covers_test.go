package covers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestGoogleBooksClient(serverURL string) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    serverURL,
		limiter:    rate.NewLimiter(rate.Inf, 1), // No rate limiting for tests
	}
}

func newTestOpenLibraryClient(serverURL string) *OpenLibraryClient {
	return &OpenLibraryClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    serverURL,
		coversURL:  "https://covers.openlibrary.org",
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func TestGoogleBooks_LookupCover(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books/v1/volumes", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totalItems": 2,
			"items": [
				{"id": "a", "volumeInfo": {"title": "Dune"}},
				{"id": "b", "volumeInfo": {"title": "Dune", "imageLinks": {
					"smallThumbnail": "http://books.google.com/small",
					"thumbnail": "http://books.google.com/books/content?id=b&printsec=frontcover&img=1"
				}}}
			]
		}`))
	}))
	defer server.Close()

	client := newTestGoogleBooksClient(server.URL)

	cover, err := client.LookupCover(context.Background(), "Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, "intitle:Dune inauthor:Frank Herbert", gotQuery)
	assert.Equal(t, "https://books.google.com/books/content?id=b&printsec=frontcover&img=1", cover)
}

func TestGoogleBooks_LookupCover_WithoutAuthor(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	_, err := newTestGoogleBooksClient(server.URL).LookupCover(context.Background(), "Dune", "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "intitle:Dune", gotQuery)
}

func TestGoogleBooks_LookupCover_NoThumbnail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 1, "items": [{"id": "a", "volumeInfo": {"title": "Dune"}}]}`))
	}))
	defer server.Close()

	_, err := newTestGoogleBooksClient(server.URL).LookupCover(context.Background(), "Dune", "Frank Herbert")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoogleBooks_LookupCover_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestGoogleBooksClient(server.URL).LookupCover(context.Background(), "Dune", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpenLibrary_LookupCover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "Effective Java", r.URL.Query().Get("title"))
		assert.Equal(t, "Joshua Bloch", r.URL.Query().Get("author"))

		result := openLibrarySearchResult{
			NumFound: 3,
			Docs: []openLibrarySearchDoc{
				{Key: "/works/OL1W", Title: "Effective Java Workbook", AuthorName: []string{"Someone"}, CoverI: 111},
				{Key: "/works/OL2W", Title: "Effective Java", AuthorName: []string{"Joshua Bloch"}},
				{Key: "/works/OL3W", Title: "Effective Java", AuthorName: []string{"Joshua Bloch"}, CoverI: 333},
			},
		}
		_ = json.NewEncoder(w).Encode(result)
	}))
	defer server.Close()

	cover, err := newTestOpenLibraryClient(server.URL).LookupCover(context.Background(), "Effective Java", "Joshua Bloch")
	require.NoError(t, err)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/333-L.jpg", cover)
}

func TestOpenLibrary_LookupCover_NoCovers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openLibrarySearchResult{
			NumFound: 1,
			Docs:     []openLibrarySearchDoc{{Key: "/works/OL2W", Title: "Effective Java"}},
		})
	}))
	defer server.Close()

	_, err := newTestOpenLibraryClient(server.URL).LookupCover(context.Background(), "Effective Java", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewFinder(t *testing.T) {
	f, err := NewFinder("google")
	require.NoError(t, err)
	assert.IsType(t, &GoogleBooksClient{}, f)

	f, err = NewFinder("openlibrary")
	require.NoError(t, err)
	assert.IsType(t, &OpenLibraryClient{}, f)

	_, err = NewFinder("amazon")
	assert.Error(t, err)
}

func TestSecureURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a.jpg", secureURL("http://example.com/a.jpg"))
	assert.Equal(t, "https://example.com/a.jpg", secureURL("https://example.com/a.jpg"))
}
