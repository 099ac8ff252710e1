package contextutil_test

import (
	"context"
	"testing"

	"go-timesheet/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = contextutil.WithRequestID(ctx, "rid-1")
	ctx = contextutil.WithUserID(ctx, "user-1")
	ctx = contextutil.WithRole(ctx, "admin")

	md := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, "rid-1", md.RequestID)
	assert.Equal(t, "user-1", md.UserID)
	assert.Equal(t, "admin", md.Role)
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewExample()
	scoped := zap.NewExample().Named("scoped")

	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.Same(t, scoped, contextutil.GetLogger(contextutil.WithLogger(context.Background(), scoped), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
