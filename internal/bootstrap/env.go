package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	worldruntime "minimap/internal/adapter/world/runtime"
	"minimap/internal/app/loop"
	"minimap/internal/app/minimap"
)

// Config is everything a binary needs to assemble the minimap.
type Config struct {
	// Params are plugin parameters, keyed like minimap.ParamOpacity.
	Params       map[string]string
	Host         worldruntime.Config
	TickInterval time.Duration
	DBDSN        string
	// Migrate applies the bundled SQL migrations when DBDSN is set.
	Migrate  bool
	SaveFile string
}

var paramKeys = []string{
	minimap.ParamHideDuringEvents,
	minimap.ParamSwitch,
	minimap.ParamOpacity,
	minimap.ParamVertical,
	minimap.ParamHorizontal,
	minimap.ParamMaxWidth,
	minimap.ParamMaxHeight,
	minimap.ParamWaterColor,
	minimap.ParamDeepWaterColor,
	minimap.ParamDamageColor,
	minimap.ParamBushColor,
	minimap.ParamPassableColor,
	minimap.ParamImpassableColor,
	minimap.ParamPlayerColor,
	minimap.ParamMarkerColor,
}

// ConfigFromEnv reads MINIMAP_* variables. Plugin parameters use the
// upper snake case of their name, e.g. MINIMAP_POS_VERTICAL.
func ConfigFromEnv() Config {
	host := worldruntime.DefaultConfig()
	host.StartMap = intEnv("MINIMAP_START_MAP", host.StartMap)
	host.MapWidth = intEnv("MINIMAP_MAP_WIDTH", host.MapWidth)
	host.MapHeight = intEnv("MINIMAP_MAP_HEIGHT", host.MapHeight)
	host.TileSize = intEnv("MINIMAP_TILE_SIZE", host.TileSize)
	host.ScreenWidth = intEnv("MINIMAP_SCREEN_WIDTH", host.ScreenWidth)
	host.ScreenHeight = intEnv("MINIMAP_SCREEN_HEIGHT", host.ScreenHeight)
	host.EventsPerMap = intEnv("MINIMAP_EVENTS_PER_MAP", host.EventsPerMap)
	if notes := notesEnv("MINIMAP_MAP_NOTES"); len(notes) > 0 {
		host.Notes = notes
	}

	params := map[string]string{}
	for _, key := range paramKeys {
		if v, ok := os.LookupEnv("MINIMAP_" + envName(key)); ok {
			params[key] = v
		}
	}

	return Config{
		Params:       params,
		Host:         host,
		TickInterval: time.Duration(intEnv("MINIMAP_TICK_MS", int(loop.DefaultInterval/time.Millisecond))) * time.Millisecond,
		DBDSN:        stringEnv("MINIMAP_DB_DSN", ""),
		Migrate:      boolEnv("MINIMAP_DB_MIGRATE", true),
		SaveFile:     stringEnv("MINIMAP_SAVE_FILE", ""),
	}
}

// envName turns maxWidthPercent into MAX_WIDTH_PERCENT.
func envName(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// notesEnv parses "2=<minimap off>;5=<minimap on>".
func notesEnv(key string) map[int]string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	out := map[int]string{}
	for _, pair := range strings.Split(raw, ";") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil || id <= 0 {
			continue
		}
		out[id] = kv[1]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
