package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providers struct {
	gemini      *httptest.Server
	resend      *httptest.Server
	geminiCalls atomic.Int32
	resendCalls atomic.Int32
	sent        atomic.Value

	// resendStatus overrides the Resend reply status when non-zero.
	resendStatus atomic.Int32
}

type sentEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func newProviders(t *testing.T, geminiStatus int, geminiBody string) *providers {
	t.Helper()

	p := &providers{}
	p.gemini = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.geminiCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(geminiStatus)
		_, _ = io.WriteString(w, geminiBody)
	}))
	t.Cleanup(p.gemini.Close)

	p.resend = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.resendCalls.Add(1)
		if status := int(p.resendStatus.Load()); status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`)
			return
		}
		var email sentEmail
		if err := json.NewDecoder(r.Body).Decode(&email); err == nil {
			p.sent.Store(email)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"email-123"}`)
	}))
	t.Cleanup(p.resend.Close)

	return p
}

func geminiText(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
		}},
	})
	return string(b)
}

func (p *providers) env() map[string]string {
	return map[string]string{
		"GOOGLE_API_KEY":            "google-key",
		"PHI_API_KEY":               "phi-key",
		"GEMINI_BASE_URL":           p.gemini.URL,
		"RESEND_API_KEY":            "resend-key",
		"RESEND_BASE_URL":           p.resend.URL,
		"NEWSLETTER_FROM_EMAIL":     "news@example.com",
		"NEWSLETTER_TO_EMAIL":       "reader@example.com",
		"NEWSLETTER_FETCH_ATTEMPTS": "1",
		"NEWSLETTER_RETRY_BASE":     "1ms",
		"LOG_LEVEL":                 "error",
	}
}

func noEnvFile(t *testing.T) []string {
	return []string{"-env-file", filepath.Join(t.TempDir(), "absent.env")}
}

func TestRun_Sends(t *testing.T) {
	t.Parallel()

	p := newProviders(t, http.StatusOK, geminiText("```html<h2>Title</h2><p>Summary</p>```"))

	var stdout, stderr bytes.Buffer
	args := append(noEnvFile(t), "-date", "2024-06-01")
	code := run(context.Background(), args, &stdout, &stderr, p.env())
	require.Equal(t, exitOK, code, stderr.String())

	require.Equal(t, int32(1), p.resendCalls.Load())
	sent := p.sent.Load().(sentEmail)
	assert.Equal(t, "AI Newsletter - 2024-06-01", sent.Subject)
	assert.Equal(t, "<h2>Title</h2><p>Summary</p>", sent.HTML)
	assert.Equal(t, []string{"reader@example.com"}, sent.To)
	assert.Equal(t, "AI Newsletter <news@example.com>", sent.From)

	var out struct {
		Confirmation struct {
			Receipt struct {
				ID string `json:"id"`
			} `json:"receipt"`
		} `json:"confirmation"`
		Subject string `json:"subject"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "email-123", out.Confirmation.Receipt.ID)
	assert.Equal(t, "AI Newsletter - 2024-06-01", out.Subject)
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	p := newProviders(t, http.StatusOK, geminiText("```html\n<h2>Title</h2>\n```"))

	var stdout, stderr bytes.Buffer
	args := append(noEnvFile(t), "-dry-run")
	code := run(context.Background(), args, &stdout, &stderr, p.env())
	require.Equal(t, exitOK, code, stderr.String())

	assert.Equal(t, "<h2>Title</h2>\n", stdout.String())
	assert.Zero(t, p.resendCalls.Load())
}

func TestRun_FetchFailure(t *testing.T) {
	t.Parallel()

	p := newProviders(t, http.StatusBadRequest, `{"error":{"code":400,"message":"bad key","status":"INVALID_ARGUMENT"}}`)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), noEnvFile(t), &stdout, &stderr, p.env())

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "content_fetch")
	assert.Zero(t, p.resendCalls.Load())
	assert.Empty(t, stdout.String())
}

func TestRun_DispatchFailure(t *testing.T) {
	t.Parallel()

	p := newProviders(t, http.StatusOK, geminiText("<h2>Title</h2><p>Summary</p>"))
	p.resendStatus.Store(http.StatusUnprocessableEntity)
	env := p.env()
	env["NEWSLETTER_DISPATCH_ATTEMPTS"] = "3"

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), noEnvFile(t), &stdout, &stderr, env)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "dispatch")
	assert.Equal(t, int32(1), p.geminiCalls.Load())
	assert.Equal(t, int32(1), p.resendCalls.Load(), "a rejected email is not retried")
	assert.Empty(t, stdout.String())
}

func TestRun_MissingConfiguration(t *testing.T) {
	t.Parallel()

	p := newProviders(t, http.StatusOK, geminiText("<p>x</p>"))
	env := p.env()
	delete(env, "GOOGLE_API_KEY")
	delete(env, "NEWSLETTER_TO_EMAIL")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), noEnvFile(t), &stdout, &stderr, env)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "GOOGLE_API_KEY")
	assert.Contains(t, stderr.String(), "NEWSLETTER_TO_EMAIL")
	assert.Zero(t, p.geminiCalls.Load(), "no network call before configuration is valid")
	assert.Zero(t, p.resendCalls.Load())
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unknown flag", args: []string{"-nope"}, want: exitUsage},
		{name: "bad date", args: []string{"-date", "06/01/2024"}, want: exitUsage},
		{name: "positional argument", args: []string{"extra"}, want: exitUsage},
		{name: "help", args: []string{"-h"}, want: exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr, map[string]string{})
			assert.Equal(t, tt.want, code)
			if tt.want == exitUsage {
				assert.True(t, strings.Contains(stderr.String(), "error") || strings.Contains(stderr.String(), "flag"))
			}
		})
	}
}
