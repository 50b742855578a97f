package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequestShutdown(t *testing.T) {
	interceptor, err := Intercept()
	require.NoError(t, err)
	require.True(t, interceptor.Listening())

	_, err = Intercept()
	require.Error(t, err)

	interceptor.RequestShutdown()

	select {
	case <-interceptor.ShutdownChannel():
	case <-time.After(time.Second):
		t.Fatal("shutdown channel not closed")
	}
	require.False(t, interceptor.Alive())

	// A second request after shutdown must not block.
	interceptor.RequestShutdown()
}

func TestZeroInterceptor(t *testing.T) {
	t.Parallel()

	var interceptor Interceptor
	require.False(t, interceptor.Listening())
}
