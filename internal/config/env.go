package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Env holds the environment overrides. It is read once at startup and
// treated as immutable afterwards.
type Env struct {
	ForceGraphics   bool
	ForceWidth      int
	ForceBackground string
	ForceForeground string
	SkipQueries     bool

	TileSize int
	Colors   int
	Shadow   *bool
	Columns  int

	Term        string
	TermProgram string
}

// LoadDotenv loads $XDG_CONFIG_HOME/lsix/env when present. Variables already
// set in the process environment are left alone.
func LoadDotenv() error {
	path := filepath.Join(Dir(), "env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// ReadEnv snapshots the overrides through lookup (os.LookupEnv in production).
func ReadEnv(lookup func(string) (string, bool)) Env {
	var env Env

	env.ForceGraphics = flag(lookup, "FORCE_GRAPHICS")
	env.ForceWidth = positive(lookup, "FORCE_WIDTH")
	env.ForceBackground = str(lookup, "FORCE_BACKGROUND")
	env.ForceForeground = str(lookup, "FORCE_FOREGROUND")
	env.SkipQueries = flag(lookup, "SKIP_QUERIES")

	env.TileSize = positive(lookup, "TILESIZE")
	env.Colors = positive(lookup, "COLORS")
	if v, ok := lookup("SHADOW"); ok && strings.TrimSpace(v) != "" {
		on := strings.TrimSpace(v) != "0"
		env.Shadow = &on
	}
	env.Columns = positive(lookup, "COLUMNS")

	env.Term = str(lookup, "TERM")
	env.TermProgram = str(lookup, "TERM_PROGRAM")

	return env
}

func str(lookup func(string) (string, bool), key string) string {
	v, _ := lookup(key)
	return strings.TrimSpace(v)
}

// flag treats any non-empty value other than "0" as set.
func flag(lookup func(string) (string, bool), key string) bool {
	v := str(lookup, key)
	return v != "" && v != "0"
}

func positive(lookup func(string) (string, bool), key string) int {
	n, err := strconv.Atoi(str(lookup, key))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
