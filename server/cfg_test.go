package server

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/puyo/model"
)

func setenv(t *testing.T, vars map[string]string) (restore func()) {
	t.Helper()
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
	}
	return func() {
		for k := range vars {
			os.Unsetenv(k)
		}
	}
}

func TestSettingsDefaults(t *testing.T) {
	s, err := SettingsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, model.DefaultCols, s.Cols)
	assert.Equal(t, model.DefaultRows, s.Rows)
	assert.Equal(t, time.Second, s.TickInterval)
	assert.Equal(t, 500*time.Millisecond, s.ClearDelay)
}

func TestSettingsFromEnv(t *testing.T) {
	defer setenv(t, map[string]string{
		"PORT":           "9000",
		"BOARD_COLS":     "8",
		"TICK_MS":        "250",
		"CLEAR_DELAY_MS": "100",
		"LAYOUT":         "boards/start.txt",
	})()
	s, err := SettingsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9000", s.Port)
	assert.Equal(t, 8, s.Cols)
	assert.Equal(t, model.DefaultRows, s.Rows)
	assert.Equal(t, 250*time.Millisecond, s.TickInterval)
	assert.Equal(t, 100*time.Millisecond, s.ClearDelay)
	assert.Equal(t, "boards/start.txt", s.Layout)
}

func TestSettingsBadNumber(t *testing.T) {
	defer setenv(t, map[string]string{"TICK_MS": "fast"})()
	_, err := SettingsFromEnv()
	assert.Error(t, err)
}

func TestLoadLayout(t *testing.T) {
	f, err := ioutil.TempFile("", "layout")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	_, err = f.WriteString("...\nR..\nRBB\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	g, err := Load(f.Name())
	require.NoError(t, err)
	assert.Equal(t, 3, g.Cols)
	assert.Equal(t, 3, g.Rows)

	s := DefaultSettings()
	s.Layout = f.Name()
	e := NewGameServer(s).newEngine()
	assert.Equal(t, 3, e.Grid().Occupied())
	assert.Equal(t, 3, e.Grid().Cols)
}

func TestLoadBadLayout(t *testing.T) {
	_, err := Load("does/not/exist.txt")
	assert.Error(t, err)

	s := DefaultSettings()
	s.Layout = "does/not/exist.txt"
	e := NewGameServer(s).newEngine()
	assert.Equal(t, model.DefaultCols, e.Grid().Cols)
}

func TestLoadShippedLayout(t *testing.T) {
	g, err := Load("../data/cascade.txt")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCols, g.Cols)
	assert.Equal(t, model.DefaultRows, g.Rows)

	g.Cells[model.DefaultRows-1][3] = model.COLOR_RED
	out, chain := model.Cascade(g)
	assert.Equal(t, 2, chain)
	assert.Equal(t, 0, out.Occupied())
}
