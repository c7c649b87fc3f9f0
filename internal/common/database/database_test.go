package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parche-recommender/internal/common/config"
)

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestElasticsearch_Ping(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(status)
	}))
	defer server.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: server.URL})
	require.NoError(t, err)

	assert.NoError(t, client.Ping(context.Background()))

	status = http.StatusServiceUnavailable
	assert.Error(t, client.Ping(context.Background()))
}

func TestPostgres_OpenIsLazy(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{
		Host: "127.0.0.1", Port: 1, User: "u", Database: "d", SSLMode: "disable",
		MaxConnections: 2, MaxIdle: 1,
	})
	require.NoError(t, err)
	defer client.Close()

	assert.Error(t, client.Ping(context.Background()))
}
