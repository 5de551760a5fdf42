package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtimer/mtimer-go/pkg/config"
	"github.com/mtimer/mtimer-go/pkg/kvstore"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

func TestOpenFileStoreAndEventLog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "state", "timers.json")
	cfg.Log.EventLog = filepath.Join(dir, "events.tlog")

	ctx := context.Background()
	svc, err := Open(cfg, presenter.NewMemory(), nil)
	require.NoError(t, err)
	require.NoError(t, svc.Start(ctx))

	_, err = svc.Add(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Stop())

	_, err = os.Stat(cfg.Store.Path)
	require.NoError(t, err, "store file should exist")

	reader, err := timerlog.NewReader(cfg.Log.EventLog)
	require.NoError(t, err)
	defer reader.Close()

	var categories []timerlog.Category
	for {
		ev, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, svc.SessionID(), ev.SessionID)
		categories = append(categories, ev.Category)
	}
	assert.Contains(t, categories, timerlog.CategorySnapshot)
	assert.Contains(t, categories, timerlog.CategoryState)
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "etcd"
	cfg.Store.Path = filepath.Join(t.TempDir(), "timers")

	_, err := Open(cfg, presenter.NewMemory(), nil)
	assert.ErrorIs(t, err, kvstore.ErrUnknownDriver)
}

func TestCloseBeforeStart(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = kvstore.DriverMemory
	cfg.Store.Path = ""

	svc, err := Open(cfg, presenter.NewMemory(), nil)
	require.NoError(t, err)
	assert.NoError(t, svc.Close())
	assert.NoError(t, svc.Close())
}
