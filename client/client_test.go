package client

import (
	"context"
	"testing"
	"time"

	"github.com/drakos74/h-clus/internal/api"
	"github.com/drakos74/h-clus/internal/cluster"
	"github.com/drakos74/h-clus/internal/data"
	"github.com/drakos74/h-clus/internal/metrics"
	"github.com/drakos74/h-clus/internal/server"
	"github.com/drakos74/h-clus/internal/session"
	"github.com/drakos74/h-clus/internal/storage"
	"github.com/drakos74/h-clus/internal/table"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (string, *storage.MockStorage) {
	loader := table.NewMemory(map[string]table.Table{
		"line": {
			Columns: []string{"x"},
			Rows:    [][]string{{"0"}, {"1"}, {"5"}, {"6"}},
		},
		"plane": {
			Columns: []string{"x", "y"},
			Rows:    [][]string{{"0", "0"}, {"0", "1"}, {"10", "10"}},
		},
	})
	store := storage.NewMockStorage()
	handler := session.NewHandler(loader, store, metrics.NewMetrics(nil), zerolog.Nop())
	srv := server.NewServer("test", "127.0.0.1:0", handler).WithLogger(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	select {
	case <-srv.Ready():
	case err := <-done:
		t.Fatalf("server did not start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start in time")
	}
	return srv.Addr().String(), store
}

func dial(t *testing.T, addr string) *Client {
	c, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	c.WithLogger(zerolog.Nop())
	t.Cleanup(func() {
		c.Close()
	})
	return c
}

func TestClient_Session(t *testing.T) {
	addr, store := newServer(t)
	c := dial(t, addr)

	_, err := c.Cluster(2, cluster.SingleLink, "early.bin")
	assert.ErrorIs(t, err, data.NoDataErr)

	var listed []string
	err = c.LoadData(func(tables []string) string {
		listed = tables
		return "line"
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"line", "plane"}, listed)

	rendering, err := c.Cluster(3, cluster.SingleLink, "line.ser")
	require.NoError(t, err)
	assert.Equal(t, "level0:\ncluster0:<[0.0]>\ncluster1:<[1.0]>\ncluster2:<[5.0]>\ncluster3:<[6.0]>\n\n"+
		"level1:\ncluster0:<[5.0]>\ncluster1:<[6.0]>\ncluster2:<[0.0]><[1.0]>\n\n"+
		"level2:\ncluster0:<[0.0]><[1.0]>\ncluster1:<[5.0]><[6.0]>\n\n", rendering)
	assert.Contains(t, store.Elements, "line.ser")

	loaded, err := c.LoadDendrogram("line.ser")
	require.NoError(t, err)
	assert.Equal(t, rendering, loaded)
}

func TestClient_Errors(t *testing.T) {
	addr, _ := newServer(t)
	c := dial(t, addr)

	err := c.Load("missing")
	assert.ErrorIs(t, err, ResponseErr)

	require.NoError(t, c.Load("plane"))

	_, err = c.Cluster(2, cluster.AverageLink, "plane.txt")
	assert.ErrorIs(t, err, cluster.InvalidFileNameErr)

	_, err = c.Cluster(3, cluster.AverageLink, "plane.bin")
	assert.ErrorIs(t, err, ResponseErr)
	assert.Contains(t, err.Error(), cluster.InvalidDepthErr.Error())

	_, err = c.Cluster(2, cluster.Linkage(7), "plane.bin")
	assert.ErrorIs(t, err, api.InvalidRequestErr)

	_, err = c.LoadDendrogram("plane.bin")
	assert.ErrorIs(t, err, ResponseErr)
	assert.Contains(t, err.Error(), storage.NotFoundErr.Error())

	// the session is still usable
	rendering, err := c.Cluster(2, cluster.AverageLink, "plane.dat")
	require.NoError(t, err)
	assert.Contains(t, rendering, "level1:\ncluster0:<[10.0,10.0]>\ncluster1:<[0.0,0.0]><[0.0,1.0]>\n")
}

func TestClient_Independent(t *testing.T) {
	addr, _ := newServer(t)
	c1 := dial(t, addr)
	c2 := dial(t, addr)

	require.NoError(t, c1.Load("line"))

	_, err := c2.LoadDendrogram("line.bin")
	assert.ErrorIs(t, err, data.NoDataErr)

	_, err = c1.Cluster(1, cluster.SingleLink, "line.bin")
	assert.NoError(t, err)
}

func TestDial_Failure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, "127.0.0.1:1")
	assert.ErrorIs(t, err, api.ConnectionErr)
}
