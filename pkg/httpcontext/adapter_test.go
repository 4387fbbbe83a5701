package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestAttachPropagatesRequestID(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-Request-ID", "req-42")

	stdCtx, cancel := NewAdapter(time.Second).Attach(ctx)
	defer cancel()

	assert.Equal(t, "req-42", string(ctx.Response.Header.Peek("X-Request-ID")))
	_, hasDeadline := stdCtx.Deadline()
	assert.True(t, hasDeadline)
}

func TestAttachGeneratesRequestID(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}

	_, cancel := NewAdapter(0).Attach(ctx)
	defer cancel()

	assert.Len(t, string(ctx.Response.Header.Peek("X-Request-ID")), 36)
}

func TestAttachCarriesUserEmail(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set(UserEmailHeader, "alice@example.com")

	stdCtx, cancel := NewAdapter(time.Second).Attach(ctx)
	defer cancel()

	assert.Equal(t, "alice@example.com", UserEmail(stdCtx))
}
