package main

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "bogus")
	t.Setenv("JWT_SECRET", "secret")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRun_ListenFailureReturns(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWKS_URL", "")
	t.Setenv("LOG_DIR", "")
	t.Setenv("PORT", strconv.Itoa(busy.Addr().(*net.TCPAddr).Port))

	err = run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
