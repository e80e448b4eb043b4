package books

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestOpenLibraryClient(handler http.Handler) (*OpenLibraryClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewOpenLibraryClient()
	client.BaseURL = server.URL
	client.CoversBaseURL = "https://covers.example.com"
	client.HTTPClient = server.Client()
	return client, server
}

func TestIdentify(t *testing.T) {
	client, server := newTestOpenLibraryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("title"); got != "The Hobbit" {
			t.Errorf("title param = %q", got)
		}
		if got := r.URL.Query().Get("author"); got != "Tolkien" {
			t.Errorf("author param = %q", got)
		}
		fmt.Fprint(w, `{"docs": [{
			"key": "/works/OL262758W",
			"title": "The Hobbit",
			"author_name": ["J.R.R. Tolkien", "Christopher Tolkien"],
			"isbn": ["9780618260300", "0618260307"],
			"publisher": ["Houghton Mifflin"],
			"first_publish_year": 1937,
			"cover_i": 14627509
		}]}`)
	}))
	defer server.Close()

	record, err := client.Identify(context.Background(), "The Hobbit", "Tolkien")
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if record == nil {
		t.Fatal("Identify() returned nil record")
	}
	if record.Title != "The Hobbit" || record.Author != "J.R.R. Tolkien" {
		t.Errorf("record = %+v", record)
	}
	if record.ISBN != "9780618260300" || record.Publisher != "Houghton Mifflin" {
		t.Errorf("record = %+v", record)
	}
	if record.PublicationYear != 1937 {
		t.Errorf("PublicationYear = %d, want 1937", record.PublicationYear)
	}
	if record.SourceID != "/works/OL262758W" {
		t.Errorf("SourceID = %q", record.SourceID)
	}
	if record.CoverImageURL != "https://covers.example.com/b/id/14627509-L.jpg" {
		t.Errorf("CoverImageURL = %q", record.CoverImageURL)
	}
}

func TestIdentifyPublishDateFallback(t *testing.T) {
	client, server := newTestOpenLibraryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"docs": [{
			"key": "/works/OL1W",
			"title": "Some Book",
			"publish_date": ["June 1998"]
		}]}`)
	}))
	defer server.Close()

	record, err := client.Identify(context.Background(), "Some Book", "")
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if record.PublicationYear != 1998 {
		t.Errorf("PublicationYear = %d, want 1998", record.PublicationYear)
	}
}

func TestIdentifyNoMatch(t *testing.T) {
	client, server := newTestOpenLibraryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"docs": []}`)
	}))
	defer server.Close()

	record, err := client.Identify(context.Background(), "No Such Book", "")
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if record != nil {
		t.Errorf("record = %+v, want nil", record)
	}
}

func TestFetchExcerpt(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "first sentence as string",
			body: `{"first_sentence": "In a hole in the ground there lived a hobbit."}`,
			want: "In a hole in the ground there lived a hobbit.",
		},
		{
			name: "first sentence as value object",
			body: `{"first_sentence": {"type": "/type/text", "value": "Call me Ishmael."}}`,
			want: "Call me Ishmael.",
		},
		{
			name: "description fallback",
			body: `{"description": "A short description."}`,
			want: "A short description.",
		},
		{
			name: "long description truncated",
			body: fmt.Sprintf(`{"description": %q}`, strings.Repeat("x", 600)),
			want: strings.Repeat("x", 500) + "...",
		},
		{
			name: "nothing available",
			body: `{"title": "Some Work"}`,
			want: ExcerptUnavailable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, server := newTestOpenLibraryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/works/OL1W.json" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			if got := client.FetchExcerpt(context.Background(), "/works/OL1W"); got != tc.want {
				t.Errorf("FetchExcerpt() = %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		client, server := newTestOpenLibraryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer server.Close()

		if got := client.FetchExcerpt(context.Background(), "/works/OL1W"); got != ExcerptError {
			t.Errorf("FetchExcerpt() = %q, want %q", got, ExcerptError)
		}
	})
}
