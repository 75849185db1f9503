package appshell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.Equal(t, 0, ExitCode(ctx, 0))
	assert.Equal(t, 3, ExitCode(ctx, 3))
	cancel()
	assert.Equal(t, 130, ExitCode(ctx, 0))
	assert.Equal(t, 2, ExitCode(ctx, 2))
}
