package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/d0ngw/counters/api"
	h "github.com/d0ngw/counters/http"
	"github.com/d0ngw/counters/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	conf := h.NewConfig("127.0.0.1:0")
	require.NoError(t, conf.RegController(api.NewCounterController(api.BasePath, store.New())))
	server := httptest.NewServer(conf.Handler())
	return server, New(server.URL+api.BasePath+"/", server.Client())
}

func TestClient(t *testing.T) {
	server, client := newTestServer(t)
	defer server.Close()

	v, err := client.Create("a")
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)

	_, err = client.Create("a")
	assert.Equal(t, http.StatusConflict, StatusOf(err))
	assert.Equal(t, "status:409,msg:Counter 'a' already exists", err.Error())

	_, err = client.Create("bad name")
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))

	v, err = client.Increment("a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)

	_, err = client.Create("b")
	require.NoError(t, err)
	v, err = client.Set("b", 4)
	require.NoError(t, err)
	assert.EqualValues(t, 4, v)

	_, err = client.Set("b", -1)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))

	v, err = client.Get("b")
	require.NoError(t, err)
	assert.EqualValues(t, 4, v)

	total, err := client.Total()
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)

	count, err := client.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	top, err := client.Top(2)
	require.NoError(t, err)
	assert.Equal(t, store.Counters{{Name: "b", Value: 4}, {Name: "a", Value: 1}}, top)

	bottom, err := client.Bottom(1)
	require.NoError(t, err)
	assert.Equal(t, store.Counters{{Name: "a", Value: 1}}, bottom)

	greater, err := client.GreaterThan(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, greater.Names())

	less, err := client.LessThan(5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, less.Names())

	v, err = client.Reset("b")
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)

	require.NoError(t, client.Delete("b"))
	_, err = client.Get("b")
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.Equal(t, http.StatusNotFound, StatusOf(client.Delete("b")))

	list, err := client.List()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 1}, list.Map())

	require.NoError(t, client.ResetAll())
	list, err = client.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClientConnectionError(t *testing.T) {
	server, client := newTestServer(t)
	server.Close()
	_, err := client.Get("a")
	assert.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
}
