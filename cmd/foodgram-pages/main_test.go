package main

import (
	"bytes"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-pages/internal/config"
)

func TestStartServer_GracefulShutdownOnSignal(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	var cfg config.Config
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = ":0"

	idleConnsClosed := make(chan struct{})
	go startServer(app, cfg, idleConnsClosed)

	time.Sleep(100 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("failed to send SIGTERM: %v", err)
	}

	select {
	case <-idleConnsClosed:
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for graceful shutdown")
	}
}

func TestServeCommand_UsesConfigAndShutsDown(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cfg.yaml")
	err := os.WriteFile(cfgPath, []byte(`
server:
  host: "127.0.0.1"
  port: ":0"
logger:
  file: "`+filepath.Join(dir, "pages.log")+`"
  level: "info"
  max_size_mb: 1
  max_backups: 1
  max_age_days: 1
rate_limiter:
  interval: 1m
  user_limit: 100
`), 0o644)
	require.NoError(t, err)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve", "--config", cfgPath})

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	time.Sleep(500 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for serve to exit")
	}
}

func TestExportCommand(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	out := t.TempDir()

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"export", "--out", out})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "exported 2 pages")
	for _, p := range []string{"about/index.html", "technologies/index.html", "static/pages.css"} {
		_, err := os.Stat(filepath.Join(out, p))
		assert.NoError(t, err, p)
	}

	about, err := os.ReadFile(filepath.Join(out, "about", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(about), "Привет!")
}

func TestExportCommand_RequiresOut(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"export"})
	assert.Error(t, cmd.Execute())
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "foodgram-pages dev")
}

func TestLoadConfig_ChromeBinOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte("{}\n"), 0o644))
	t.Setenv("CHROME_BIN", "/usr/bin/chromium")

	cfg := loadConfig(p)
	assert.Equal(t, "/usr/bin/chromium", cfg.PDF.ChromePath)
}
