package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/slot-scheduler/internal/config"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
)

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	return cfg
}

func TestCheckConfig_MissingGoogle(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		"CALENDAR_SOURCE":    "google",
		"GOOGLE_CALENDAR_ID": "shop@example.com",
		"GOOGLE_CLIENT_ID":   "1234567890-abcdefghijklmnop.apps.googleusercontent.com",
	})

	var out bytes.Buffer
	err := checkConfig(context.Background(), &out, cfg, false)

	assert.True(t, httperr.IsBusiness(err, httperr.CodeConfiguration))
	assert.Contains(t, out.String(), "shop@example.com")
	assert.Contains(t, out.String(), "1234567890-abcd...")
	assert.NotContains(t, out.String(), "googleusercontent")
	assert.Contains(t, out.String(), "GOOGLE_REFRESH_TOKEN  (not set)")
	assert.Contains(t, out.String(), "configuration invalid")
}

func TestCheckConfig_MockProbe(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"CALENDAR_SOURCE": "mock"})

	var out bytes.Buffer
	require.NoError(t, checkConfig(context.Background(), &out, cfg, true))
	assert.Contains(t, out.String(), "configuration ok")
	assert.Contains(t, out.String(), "probe ok")
}

func TestMask(t *testing.T) {
	assert.Equal(t, "(not set)", mask("", 4))
	assert.Equal(t, "abcd...", mask("abcdefgh", 4))
	assert.Equal(t, "...", mask("abc", 4))
	assert.Equal(t, "primary", mask("primary", -1))
}

func TestHashPasswordCmd(t *testing.T) {
	cmd := newHashPasswordCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("hunter22\n"))
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")))
}
