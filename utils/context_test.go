package utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestIDFromCtx_Empty(t *testing.T) {
	assert.Equal(t, "", GetRequestIDFromCtx(context.Background()))
}

func TestWithNewRqID(t *testing.T) {
	ctx := WithNewRqID(context.Background())

	rqID := GetRequestIDFromCtx(ctx)
	_, err := uuid.Parse(rqID)
	require.NoError(t, err)

	assert.NotEqual(t, rqID, GetRequestIDFromCtx(WithNewRqID(ctx)))
}
