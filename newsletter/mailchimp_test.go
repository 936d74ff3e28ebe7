package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMemberHash(t *testing.T) {
	// md5("user@example.com")
	want := "b58996c504c5638798eb6b511e6f49af"
	if got := MemberHash("User@Example.com"); got != want {
		t.Errorf("MemberHash = %q, want %q", got, want)
	}
}

func TestSubscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		if want := "/3.0/lists/aud1/members/" + MemberHash("user@example.com"); r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "apikey" || pass != "key-us1" {
			t.Errorf("basic auth = %q/%q/%v", user, pass, ok)
		}
		var body memberRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.EmailAddress != "User@Example.com" || body.Status != "subscribed" ||
			len(body.Tags) != 1 || body.Tags[0] != SubscriptionTag {
			t.Errorf("body = %+v", body)
		}
		w.Write([]byte(`{"id":"x"}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key-us1", AudienceID: "aud1", Server: "us1"}, WithBaseURL(srv.URL))
	if err := c.Subscribe(context.Background(), "User@Example.com"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
}

func TestSubscribeErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantExists bool
		wantDetail string
	}{
		{"member exists", http.StatusBadRequest, `{"title":"Member Exists","detail":"already a list member"}`, true, "already a list member"},
		{"invalid", http.StatusBadRequest, `{"title":"Invalid Resource","detail":"looks fake"}`, false, "looks fake"},
		{"no body", http.StatusInternalServerError, ``, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(Config{APIKey: "k", AudienceID: "a", Server: "s"}, WithBaseURL(srv.URL))
			err := c.Subscribe(context.Background(), "a@b.co")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrAlreadySubscribed); got != tt.wantExists {
				t.Errorf("errors.Is(ErrAlreadySubscribed) = %v, want %v", got, tt.wantExists)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err %v is not *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Detail != tt.wantDetail {
				t.Errorf("apiErr = %+v", apiErr)
			}
		})
	}
}

func TestSubscribeNotConfigured(t *testing.T) {
	c := New(Config{APIKey: "k"})
	if err := c.Subscribe(context.Background(), "a@b.co"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
