package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connection-finder/internal/models"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, time.Hour), mr
}

func TestKeyNormalizesQueryFields(t *testing.T) {
	a := Key("github", models.SearchQuery{Company: "Stripe", Title: "Engineer"})
	b := Key("github", models.SearchQuery{Company: "  stripe ", Title: "ENGINEER"})
	c := Key("apollo", models.SearchQuery{Company: "Stripe", Title: "Engineer"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGetMissAndRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	query := models.SearchQuery{Company: "Stripe", Title: "Engineer"}

	_, hit, err := c.Get(ctx, "github", query)
	require.NoError(t, err)
	assert.False(t, hit)

	people := []models.Person{
		{Name: "Ada Lovelace", Company: "Stripe", Title: "Engineer", Source: "github"},
	}
	require.NoError(t, c.Set(ctx, "github", query, people))

	got, hit, err := c.Get(ctx, "github", query)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, "Ada Lovelace", got[0].Name)
}

func TestGetDeletesMalformedPayload(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	query := models.SearchQuery{Company: "Stripe", Title: "Engineer"}

	key := Key("github", query)
	require.NoError(t, mr.Set(key, "not json"))

	_, hit, err := c.Get(ctx, "github", query)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists(key))
}

func TestClearBySource(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	queryA := models.SearchQuery{Company: "Stripe", Title: "Engineer"}
	queryB := models.SearchQuery{Company: "Square", Title: "Engineer"}
	require.NoError(t, c.Set(ctx, "github", queryA, nil))
	require.NoError(t, c.Set(ctx, "github", queryB, nil))
	require.NoError(t, c.Set(ctx, "apollo", queryA, nil))

	deleted, err := c.Clear(ctx, "github")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"apollo": 1}, stats)
}
