package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lysyi3m/nga-monitor/app/config"
)

type staticSource struct {
	cfg config.CrawlerConfig
}

func (s *staticSource) CrawlerConfig() config.CrawlerConfig {
	return s.cfg
}

const samplePageJSON = `{
  "code": 0,
  "tsubject": "Sample Thread",
  "tauthor": "op",
  "tauthorid": 42,
  "vrows": 25,
  "totalPage": 2,
  "result": [
    {
      "pid": 5001,
      "lou": 21,
      "content": "first reply on page two",
      "postdate": "2024-01-01 12:00",
      "postdatetimestamp": 1704081600,
      "author": {"username": "alice", "uid": 7}
    },
    {
      "pid": 5002,
      "lou": 22,
      "content": "second reply",
      "postdate": "2024-01-01 12:05",
      "postdatetimestamp": 1704081900,
      "author": {"username": "bob", "uid": 8}
    }
  ]
}`

func TestFetchPage_ParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if r.PostForm.Get("tid") != "100" || r.PostForm.Get("page") != "2" {
			t.Errorf("Unexpected form values: %v", r.PostForm)
		}
		w.Write([]byte(samplePageJSON))
	}))
	defer server.Close()

	crawler := New(&staticSource{cfg: config.CrawlerConfig{APIURL: server.URL, Timeout: 5}})

	page, err := crawler.FetchPage(context.Background(), 100, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if page.Title != "Sample Thread" {
		t.Errorf("Expected title 'Sample Thread', got %q", page.Title)
	}
	if page.TID != 100 || page.CurrentPage != 2 {
		t.Errorf("Expected tid 100 page 2, got tid %d page %d", page.TID, page.CurrentPage)
	}
	if page.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", page.TotalPages)
	}
	if len(page.Posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(page.Posts))
	}

	post := page.Posts[0]
	if post.PostNumber != 21 || post.Author.UID != 7 || post.Author.Name != "alice" {
		t.Errorf("First post decoded wrong: %+v", post)
	}
	if post.TID != 100 || post.Page != 2 || post.ThreadTitle != "Sample Thread" {
		t.Errorf("Post annotations missing: %+v", post)
	}
}

func TestFetchPage_SendsPassportCookie(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(samplePageJSON))
	}))
	defer server.Close()

	crawler := New(&staticSource{cfg: config.CrawlerConfig{
		APIURL:         server.URL,
		NGAPassportUID: "111",
		NGAPassportCID: "aaa",
	}})

	if _, err := crawler.FetchPage(context.Background(), 100, 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "ngaPassportUid=111; ngaPassportCid=aaa"
	if gotCookie != expected {
		t.Errorf("Expected cookie %q, got %q", expected, gotCookie)
	}
}

func TestFetchPage_CredentialsReadPerRequest(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(samplePageJSON))
	}))
	defer server.Close()

	source := &staticSource{cfg: config.CrawlerConfig{
		APIURL:         server.URL,
		NGAPassportUID: "111",
		NGAPassportCID: "aaa",
	}}
	crawler := New(source)

	// Rotate the passport between requests
	source.cfg.NGAPassportUID = "222"
	source.cfg.NGAPassportCID = "bbb"

	if _, err := crawler.FetchPage(context.Background(), 100, 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotCookie != "ngaPassportUid=222; ngaPassportCid=bbb" {
		t.Errorf("Expected rotated passport in cookie, got %q", gotCookie)
	}
}

func TestFetchPage_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	crawler := New(&staticSource{cfg: config.CrawlerConfig{APIURL: server.URL}})

	_, err := crawler.FetchPage(context.Background(), 100, 1)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected a TransportError, got %v", err)
	}
	if transportErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", transportErr.StatusCode)
	}
}

func TestFetchPage_MissingSuccessMarker(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"error code", `{"code": 1, "msg": "login required"}`},
		{"no code field", `{"tsubject": "x"}`},
		{"not json", `<html>banned</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			crawler := New(&staticSource{cfg: config.CrawlerConfig{APIURL: server.URL}})

			_, err := crawler.FetchPage(context.Background(), 100, 1)

			var contentErr *ContentError
			if !errors.As(err, &contentErr) {
				t.Errorf("Expected a ContentError, got %v", err)
			}
		})
	}
}
