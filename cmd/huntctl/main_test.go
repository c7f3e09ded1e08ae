package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cmd, err := parseCommand([]string{"migrate"})
	require.NoError(t, err)
	assert.Equal(t, "migrate", cmd.name)
	assert.Equal(t, 2*time.Minute, cmd.timeout)

	cmd, err = parseCommand([]string{"-timeout", "30s", "import-slots", "slots.json"})
	require.NoError(t, err)
	assert.Equal(t, "import-slots", cmd.name)
	assert.Equal(t, "slots.json", cmd.file)
	assert.Equal(t, 30*time.Second, cmd.timeout)

	cmd, err = parseCommand([]string{"-ttl", "1h", "service-token"})
	require.NoError(t, err)
	assert.Equal(t, "service-token", cmd.name)
	assert.Equal(t, time.Hour, cmd.ttl)

	for _, args := range [][]string{
		nil,
		{"import-slots"},
		{"sweep-sessions", "extra"},
		{"drop-everything"},
		{"-bogus", "migrate"},
	} {
		_, err := parseCommand(args)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}
}

func TestServiceToken(t *testing.T) {
	_, err := serviceToken("", time.Hour)
	assert.Error(t, err)

	token, err := serviceToken("secret", time.Hour)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}

func TestReadSlots(t *testing.T) {
	in, err := readSlots(strings.NewReader(`[{"name":"Sweet Bonanza","provider":"Pragmatic"}]`))
	require.NoError(t, err)
	require.Len(t, in.Slots, 1)
	assert.Equal(t, "Sweet Bonanza", in.Slots[0].Name)

	in, err = readSlots(strings.NewReader(`{"slots":[{"name":"Wanted","provider":"Hacksaw","category":"video"}]}`))
	require.NoError(t, err)
	require.Len(t, in.Slots, 1)
	assert.Equal(t, "video", *in.Slots[0].Category)

	_, err = readSlots(strings.NewReader(`[{"name":"No provider"}]`))
	assert.Error(t, err)

	_, err = readSlots(strings.NewReader(`[]`))
	assert.Error(t, err)

	_, err = readSlots(strings.NewReader(`nonsense`))
	assert.Error(t, err)
}
