package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/nhle/worktimer/internal/model"
)

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}

func TestRuleFromConfig(t *testing.T) {
	r := ruleFromConfig(&model.Config{FromState: "Open", ToState: "Done", RoundingBase: 15})
	assert.Equal(t, "Open", r.From)
	assert.Equal(t, "Done", r.To)
	assert.Equal(t, 15, r.RoundingBase)
}

func TestValidators(t *testing.T) {
	assert.Error(t, validateRequired("Token")("  "))
	assert.NoError(t, validateRequired("Token")("perm:x"))
	assert.Error(t, validateURL("tracker.example.com"))
	assert.NoError(t, validateURL("https://tracker.example.com"))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"states", "log", "login", "whoami"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}
