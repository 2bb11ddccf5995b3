package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default().Analysis
	cfg.BaseURL = srv.URL + "/"
	cfg.Timeout = 2 * time.Second
	return New(cfg, nil)
}

func TestClassify_FormFields(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/class-2.0" {
			t.Errorf("path = %q, want /class-2.0", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		got = map[string]string{}
		for k := range r.PostForm {
			got[k] = r.PostForm.Get(k)
		}
		w.Write([]byte(`{"status":{"code":"0","msg":"OK"},"category_list":[{"label":"News>Sports","relevance":"45.0"}]}`))
	})

	resp, err := c.Classify(context.Background(), "secret", "some text")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	want := map[string]string{"key": "secret", "txt": "some text", "model": "IPTC_en", "detailed": "1"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("form[%s] = %q, want %q", k, got[k], v)
		}
	}
	if resp.Status == nil || resp.Status.Code != "0" {
		t.Errorf("Status = %+v, want code 0", resp.Status)
	}
	if len(resp.CategoryList) != 1 || resp.CategoryList[0].Relevance != 45 {
		t.Errorf("CategoryList = %+v", resp.CategoryList)
	}
}

func TestTopics_FormFields(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/topics-2.0" {
			t.Errorf("path = %q, want /topics-2.0", r.URL.Path)
		}
		r.ParseForm()
		got = map[string]string{}
		for k := range r.PostForm {
			got[k] = r.PostForm.Get(k)
		}
		w.Write([]byte(`{"status":{"code":0},"concept_list":[{"form":"game","relevance":30}]}`))
	})

	resp, err := c.Topics(context.Background(), "secret", "some text")
	if err != nil {
		t.Fatalf("Topics() error = %v", err)
	}

	want := map[string]string{"key": "secret", "txt": "some text", "lang": "en", "tt": "ec", "min_relevance": "10"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("form[%s] = %q, want %q", k, got[k], v)
		}
	}
	if resp.Status == nil || resp.Status.Code != "0" {
		t.Errorf("numeric status code not accepted: %+v", resp.Status)
	}
	if len(resp.ConceptList) != 1 || resp.ConceptList[0].Form != "game" || resp.ConceptList[0].Relevance != 30 {
		t.Errorf("ConceptList = %+v", resp.ConceptList)
	}
}

func TestPost_HTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"status block on 4xx is returned", http.StatusUnauthorized, `{"status":{"code":"100","msg":"denied"}}`, false},
		{"html error page", http.StatusBadGateway, `<html>bad gateway</html>`, true},
		{"json without status on 5xx", http.StatusInternalServerError, `{"error":"x"}`, true},
		{"garbage on 200", http.StatusOK, `not json`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.Classify(context.Background(), "k", "t")
			if (err != nil) != tt.wantErr {
				t.Errorf("Classify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRelevanceUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Relevance
	}{
		{`"45.0"`, 45},
		{`12.5`, 12.5},
		{`""`, 0},
		{`null`, 0},
		{`"n/a"`, 0},
	}

	for _, tt := range tests {
		var r Relevance
		if err := json.Unmarshal([]byte(tt.in), &r); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.in, err)
			continue
		}
		if r != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, r, tt.want)
		}
	}
}
