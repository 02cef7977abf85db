package xworkerid_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
)

func TestNewLayout(t *testing.T) {
	l, err := xworkerid.NewLayout("/uid")
	require.NoError(t, err)

	assert.Equal(t, "/uid", l.Root())
	assert.Equal(t, "/uid/workNode", l.WorkNodeParent())
	assert.Equal(t, "/uid/workNode/workid-", l.WorkIDPrefix())
	assert.Equal(t, "/uid/storage", l.StorageParent())
	assert.Equal(t, "/uid/storage/10.0.0.5", l.MappingPath("10.0.0.5"))
	assert.Equal(t, "/uid/locks/10.0.0.5", l.LockPath("10.0.0.5"))
	assert.Equal(t, []string{"/uid", "/uid/workNode", "/uid/storage"}, l.Namespace())
}

func TestNewLayout_Clean(t *testing.T) {
	l, err := xworkerid.NewLayout(" /apps//uid/ ")
	require.NoError(t, err)
	assert.Equal(t, "/apps/uid", l.Root())
	assert.Equal(t, "/apps/uid/workNode/workid-", l.WorkIDPrefix())
	assert.Equal(t, []string{"/apps", "/apps/uid", "/apps/uid/workNode", "/apps/uid/storage"}, l.Namespace())

	l, err = xworkerid.NewLayout("/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/a/b", "/a/b/c", "/a/b/c/workNode", "/a/b/c/storage"}, l.Namespace())
}

func TestNewLayout_Invalid(t *testing.T) {
	for _, root := range []string{"", "uid", "/", "//", "/.."} {
		t.Run(root, func(t *testing.T) {
			_, err := xworkerid.NewLayout(root)
			assert.ErrorIs(t, err, xworkerid.ErrInvalidConfig)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     xworkerid.Config
		wantErr bool
	}{
		{name: "zero value uses defaults", cfg: xworkerid.Config{}},
		{name: "defaults", cfg: xworkerid.DefaultConfig()},
		{name: "overwrite", cfg: xworkerid.Config{MappingMode: xworkerid.MappingOverwrite}},
		{name: "custom root", cfg: xworkerid.Config{Root: "/svc/uid", Timeout: time.Second, MaxWorkerID: 1023}},
		{name: "relative root", cfg: xworkerid.Config{Root: "uid"}, wantErr: true},
		{name: "negative timeout", cfg: xworkerid.Config{Timeout: -time.Second}, wantErr: true},
		{name: "unknown mode", cfg: xworkerid.Config{MappingMode: "merge"}, wantErr: true},
		{name: "negative max", cfg: xworkerid.Config{MaxWorkerID: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, xworkerid.ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := xworkerid.DefaultConfig()
	assert.Equal(t, xworkerid.DefaultRoot, cfg.Root)
	assert.Equal(t, xworkerid.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, xworkerid.MappingCreateIfAbsent, cfg.MappingMode)
	assert.Zero(t, cfg.MaxWorkerID)
}
