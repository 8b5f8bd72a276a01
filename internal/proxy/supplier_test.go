package proxy

import (
	"context"
	"net/http"
	"net"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewProxySupplierKeepsWorkingProxies(t *testing.T) {
	// Any HTTP server answering absolute-form requests works as a forward proxy.
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer good.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	supplier := NewProxySupplier(
		context.Background(),
		[]string{failing.URL, good.URL, "http://127.0.0.1:1"},
		"http://catalog.test/brands",
		2*time.Second,
	)

	assert.Equal(t, 1, supplier.Len())
	assert.Equal(t, good.URL, supplier.Get())
	assert.Equal(t, good.URL, supplier.Get())
}

func TestNewProxySupplierWithoutProxies(t *testing.T) {
	supplier := NewProxySupplier(context.Background(), nil, "http://catalog.test", time.Second)
	assert.Equal(t, 0, supplier.Len())
	assert.Equal(t, "", supplier.Get())
}

func TestProxySupplierRoundRobin(t *testing.T) {
	p := &proxySupplier{proxies: []string{"a", "b"}}
	assert.Equal(t, []string{"a", "b", "a"}, []string{p.Get(), p.Get(), p.Get()})
}

func TestIsProxyValidReleasesConnections(t *testing.T) {
	var opened, closed atomic.Int32
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Config.ConnState = func(conn net.Conn, state http.ConnState) {
		switch state {
		case http.StateNew:
			opened.Add(1)
		case http.StateClosed:
			closed.Add(1)
		}
	}
	server.Start()
	defer server.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, isProxyValid(context.Background(), server.URL, "http://catalog.test/just-in", 2*time.Second))
	}

	assert.Eventually(t, func() bool {
		return opened.Load() == 3 && closed.Load() == 3
	}, 2*time.Second, 20*time.Millisecond)
}
