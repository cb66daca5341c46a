package mealdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealspread/internal/platform/mealdb"
	"mealspread/internal/platform/metrics"
	"mealspread/internal/recipe"
)

const filterEggs = `{"meals":[
	{"strMeal":"Shakshuka","strMealThumb":"https://img/1.jpg","idMeal":"52963"},
	{"strMeal":"Spanish Tortilla","strMealThumb":"https://img/2.jpg","idMeal":"52807"}
]}`

const lookupShakshuka = `{"meals":[{
	"idMeal":"52963",
	"strMeal":"Shakshuka",
	"strInstructions":"Fry the onion. Add tomatoes. Crack in the eggs.",
	"strSource":"",
	"strYoutube":"https://www.youtube.com/watch?v=C5J39YnnPsg",
	"strIngredient1":"Olive Oil",
	"strIngredient2":" Red Onion ",
	"strIngredient3":"",
	"strIngredient4":null,
	"strIngredient5":"Eggs",
	"strIngredient20":"Parsley"
}]}`

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFilterByIngredient(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/filter.php", r.URL.Path)
		switch r.URL.Query().Get("i") {
		case "eggs":
			w.Write([]byte(filterEggs))
		case "chicken breast":
			w.Write([]byte(`{"meals":null}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	client := mealdb.NewClient(srv.URL, srv.Client())

	got, err := client.FilterByIngredient(context.Background(), "eggs")
	require.NoError(t, err)
	assert.Equal(t, []recipe.Summary{
		{Title: "Shakshuka", Image: "https://img/1.jpg", ID: "52963", Link: "https://www.themealdb.com/meal/52963"},
		{Title: "Spanish Tortilla", Image: "https://img/2.jpg", ID: "52807", Link: "https://www.themealdb.com/meal/52807"},
	}, got)

	got, err = client.FilterByIngredient(context.Background(), "chicken breast")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = client.FilterByIngredient(context.Background(), "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-OK status code: 500")
}

func TestLookupMeal(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup.php", r.URL.Path)
		if r.URL.Query().Get("i") == "52963" {
			w.Write([]byte(lookupShakshuka))
			return
		}
		w.Write([]byte(`{"meals":null}`))
	})
	client := mealdb.NewClient(srv.URL+"/", srv.Client())

	d, err := client.LookupMeal(context.Background(), "52963")
	require.NoError(t, err)
	assert.Equal(t, &recipe.Detail{
		ID:           "52963",
		Title:        "Shakshuka",
		Instructions: "Fry the onion. Add tomatoes. Crack in the eggs.",
		VideoLink:    "https://www.youtube.com/watch?v=C5J39YnnPsg",
		Ingredients:  []string{"Olive Oil", "Red Onion", "Eggs", "Parsley"},
	}, d)

	_, err = client.LookupMeal(context.Background(), "0")
	assert.True(t, errors.Is(err, mealdb.ErrNotFound))
}

func TestSearchMealByName(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.php", r.URL.Path)
		assert.Equal(t, "Shakshuka", r.URL.Query().Get("s"))
		w.Write([]byte(lookupShakshuka))
	})
	client := mealdb.NewClient(srv.URL, srv.Client())

	d, err := client.SearchMealByName(context.Background(), "Shakshuka")
	require.NoError(t, err)
	assert.Equal(t, []string{"Olive Oil", "Red Onion", "Eggs", "Parsley"}, d.Ingredients)
}

func TestMalformedPayload(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>rate limited</html>`))
	})
	client := mealdb.NewClient(srv.URL, srv.Client())

	_, err := client.FilterByIngredient(context.Background(), "eggs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode filter.php response")
}

func TestTimeout(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client := mealdb.NewClient(srv.URL, srv.Client(), mealdb.WithTimeout(50*time.Millisecond))

	_, err := client.LookupMeal(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestCacheServesRepeatedLookups(t *testing.T) {
	var calls int
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(filterEggs))
	})
	cache := &memoryCache{data: map[string][]byte{}}
	m := metrics.New(prometheus.NewRegistry())
	client := mealdb.NewClient(srv.URL, srv.Client(), mealdb.WithCache(cache), mealdb.WithMetrics(m))

	first, err := client.FilterByIngredient(context.Background(), "eggs")
	require.NoError(t, err)
	second, err := client.FilterByIngredient(context.Background(), "eggs")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Contains(t, cache.data, "filter.php?i=eggs")
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, []byte) error {
	return errors.New("cache down")
}

func TestCacheFailureFallsThrough(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(filterEggs))
	})
	client := mealdb.NewClient(srv.URL, srv.Client(), mealdb.WithCache(failingCache{}))

	got, err := client.FilterByIngredient(context.Background(), "eggs")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
