package platform

import (
	"errors"
	"net"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireSingleInstanceRejectsSecondHolder(t *testing.T) {
	appName := "stillpoint-test-" + t.Name()

	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)

	second, err := AcquireSingleInstance(appName)
	assert.Nil(t, second)
	assert.True(t, errors.Is(err, ErrAlreadyRunning))

	require.NoError(t, guard.Release())
	third, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	require.NoError(t, third.Release())
}

func TestSecondLaunchActivatesRunningInstance(t *testing.T) {
	appName := "stillpoint-test-" + t.Name()

	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	defer func() {
		_ = guard.Release()
	}()

	var activations atomic.Int32
	guard.Serve(func() {
		activations.Add(1)
	})

	_, err = AcquireSingleInstance(appName)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	_, err = AcquireSingleInstance(appName)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	require.Eventually(t, func() bool {
		return activations.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnknownCommandDoesNotActivate(t *testing.T) {
	appName := "stillpoint-test-" + t.Name()

	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)

	activated := make(chan struct{}, 1)
	guard.Serve(func() {
		activated <- struct{}{}
	})

	conn, err := net.Dial("tcp", instanceAddress(appName))
	require.NoError(t, err)
	_, err = conn.Write([]byte("hello\n"))
	require.NoError(t, err)
	_ = conn.Close()

	select {
	case <-activated:
		t.Fatal("unexpected activation")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, guard.Release())
}

func TestNilGuardIsSafe(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
}

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	port := portFromName("Stillpoint")
	assert.Equal(t, port, portFromName("Stillpoint"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestAppDirJoinsConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	service := NewService()

	configDir, err := service.GetConfigDir()
	require.NoError(t, err)
	appDir, err := service.AppDir("Stillpoint")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configDir, "Stillpoint"), appDir)

	_, err = service.AppDir("")
	assert.Error(t, err)
}
