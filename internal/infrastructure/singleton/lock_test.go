package singleton

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndLock_PortAvailable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	result, err := CheckAndLock(addr)
	require.NoError(t, err)
	require.NotNil(t, result)
	defer result.Close()

	assert.Equal(t, addr, result.Addr().String())
}

func TestCheckAndLock_PortInUse_HealthyInstance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == HealthPath {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	addr := strings.TrimPrefix(server.URL, "http://")
	result, err := CheckAndLock(addr)
	assert.NoError(t, err)
	assert.Nil(t, result, "a healthy instance means the caller should exit")
}

func TestCheckAndLock_PortInUse_UnhealthyInstance(t *testing.T) {
	// 占用端口但不提供健康检查
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	result, err := CheckAndLock(listener.Addr().String())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPortBusy))
}

func TestIsAddrInUse(t *testing.T) {
	t.Run("address in use", func(t *testing.T) {
		l1, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer l1.Close()

		_, err = net.Listen("tcp", l1.Addr().String())
		assert.True(t, isAddrInUse(err))
	})

	t.Run("other error", func(t *testing.T) {
		_, err := net.Listen("tcp", "invalid")
		assert.False(t, isAddrInUse(err))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, isAddrInUse(nil))
	})
}

func TestIsInstanceRunning(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == HealthPath {
				w.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		_, port, err := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
		require.NoError(t, err)
		assert.True(t, isInstanceRunning(":"+port))
	})

	t.Run("not listening", func(t *testing.T) {
		assert.False(t, isInstanceRunning(":99999"))
	})

	t.Run("non-200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		assert.False(t, isInstanceRunning(strings.TrimPrefix(server.URL, "http://")))
	})
}
