package mdns

import (
	"errors"
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoapp/backend/internal/infrastructure/config"
)

func TestParsePort(t *testing.T) {
	tests := []struct {
		addr    string
		want    int
		wantErr bool
	}{
		{":8080", 8080, false},
		{"127.0.0.1:19960", 19960, false},
		{"8080", 0, true},
		{":http", 0, true},
		{":70000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := ParsePort(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdvertiser_Disabled(t *testing.T) {
	called := false
	a := NewAdvertiser(&config.MDNSConfig{Enabled: false, Instance: "todoapp"}, &config.ServerConfig{HTTPPort: ":8080"})
	a.register = func(string, string, string, int, []string, []net.Interface) (*zeroconf.Server, error) {
		called = true
		return nil, nil
	}

	require.NoError(t, a.Start())
	assert.False(t, called)
	assert.False(t, a.IsRunning())
	a.Stop()
}

func TestAdvertiser_StartStop(t *testing.T) {
	var gotInstance, gotService string
	var gotPort int
	a := NewAdvertiser(&config.MDNSConfig{Enabled: true, Instance: "office"}, &config.ServerConfig{HTTPPort: ":9090"})
	a.register = func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (*zeroconf.Server, error) {
		gotInstance, gotService, gotPort = instance, service, port
		return nil, nil
	}

	require.NoError(t, a.Start())
	assert.True(t, a.IsRunning())
	assert.Equal(t, "office", gotInstance)
	assert.Equal(t, ServiceType, gotService)
	assert.Equal(t, 9090, gotPort)

	assert.Error(t, a.Start(), "second start should fail")

	a.Stop()
	assert.False(t, a.IsRunning())
	a.Stop()
}

func TestAdvertiser_RegisterError(t *testing.T) {
	a := NewAdvertiser(&config.MDNSConfig{Enabled: true, Instance: "todoapp"}, &config.ServerConfig{HTTPPort: ":8080"})
	a.register = func(string, string, string, int, []string, []net.Interface) (*zeroconf.Server, error) {
		return nil, errors.New("no multicast")
	}

	err := a.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no multicast")
	assert.False(t, a.IsRunning())
}
