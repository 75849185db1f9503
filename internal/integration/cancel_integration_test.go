package integration

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"readmap/internal/app"
)

func TestCancelledBeforeStartExits130(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := app.RunContext(ctx, []string{"-x", f.ref, "--quiet", f.reads}, io.Discard, io.Discard)
	assert.Equal(t, 130, code)
}
