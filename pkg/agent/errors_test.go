package agent_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/newsletter/pkg/agent"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	providerErr := func(status int) error {
		return &agent.ProviderError{Provider: "test", StatusCode: status, Err: errors.New("boom")}
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rate limited", err: providerErr(429), want: true},
		{name: "request timeout", err: providerErr(408), want: true},
		{name: "server error", err: providerErr(503), want: true},
		{name: "bad request", err: providerErr(400), want: false},
		{name: "unauthorized", err: providerErr(401), want: false},
		{name: "transport failure", err: providerErr(0), want: true},
		{name: "wrapped provider error", err: fmt.Errorf("call: %w", providerErr(500)), want: true},
		{name: "network error", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: true},
		{name: "canceled", err: &agent.ProviderError{Provider: "test", Err: context.Canceled}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, agent.IsRetryable(tt.err))
		})
	}
}

func TestProviderError_Error(t *testing.T) {
	t.Parallel()

	err := &agent.ProviderError{Provider: "gemini", StatusCode: 429, Err: errors.New("quota")}
	assert.Equal(t, "gemini: status 429: quota", err.Error())

	err = &agent.ProviderError{Provider: "openai", Err: errors.New("dial tcp")}
	assert.Equal(t, "openai: dial tcp", err.Error())
}
