package wordpress

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sync/atomic"
	"testing"
)

func TestSendContactFormSuccess(t *testing.T) {
	unitTag := regexp.MustCompile(`^wpcf7-f42-p0-o\d{1,2}$`)
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/contact-form-7/v1/contact-forms/42/feedback", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		want := map[string]string{
			"your-email":              "a@b.co",
			"your-subject":            "Hi",
			"your-message":            "Hello there",
			"_wpcf7":                  "42",
			"_wpcf7_version":          "5.7.7",
			"_wpcf7_container_post":   "0",
			"_wpcf7_posted_data_hash": "",
		}
		for k, v := range want {
			if got := r.FormValue(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
		if tag := r.FormValue("_wpcf7_unit_tag"); !unitTag.MatchString(tag) {
			t.Errorf("_wpcf7_unit_tag = %q", tag)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"mail_sent","message":"ok"}`)
	})
	c, _ := newTestClient(t, mux, WithContactFormID("42"))

	res := c.SendContactForm(context.Background(), ContactForm{Email: "a@b.co", Subject: "Hi", Message: "Hello there"})
	if !res.Success || res.Message != ContactSentMessage {
		t.Errorf("result = %+v", res)
	}
}

func TestSendContactFormFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"validation failed", http.StatusOK, `{"status":"validation_failed","message":"Invalid"}`},
		{"mail failed", http.StatusOK, `{"status":"mail_failed","message":"Nope"}`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"not json", http.StatusOK, `<html></html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			res := c.SendContactForm(context.Background(), ContactForm{Email: "a@b.co", Subject: "s", Message: "m"})
			if res.Success {
				t.Error("expected failure")
			}
			if res.Message != ContactFailedMessage {
				t.Errorf("Message = %q, want generic failure", res.Message)
			}
			if res.Detail == "" || res.Detail == res.Message {
				t.Errorf("Detail = %q, want the underlying cause", res.Detail)
			}
		})
	}
}

func TestSendContactFormMissingFieldSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	forms := []ContactForm{
		{Subject: "s", Message: "m"},
		{Email: "a@b.co", Message: "m"},
		{Email: "a@b.co", Subject: "s", Message: "   "},
	}
	for _, f := range forms {
		if res := c.SendContactForm(context.Background(), f); res.Success || res.Message != ContactFailedMessage || res.Detail != contactMissingField {
			t.Errorf("SendContactForm(%+v) = %+v", f, res)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("requests = %d, want 0", calls.Load())
	}
}
