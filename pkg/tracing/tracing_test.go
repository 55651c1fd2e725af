package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-graphql/config"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_WithEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{
		Endpoint:    "localhost:4318",
		ServiceName: "gin-graphql-test",
		SampleRatio: 1,
	})
	require.NoError(t, err)
	// 导出器是惰性连接的，关闭时最多返回导出失败
	_ = shutdown(context.Background())
}
