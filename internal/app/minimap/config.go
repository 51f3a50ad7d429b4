package minimap

import (
	"strconv"
	"strings"

	"minimap/internal/app/ports"
	"minimap/internal/domain/palette"
)

// Plugin parameter names, as the host engine passes them.
const (
	ParamHideDuringEvents = "isHiddenDuringEvents"
	ParamSwitch           = "switch"
	ParamOpacity          = "opacity"
	ParamVertical         = "posVertical"
	ParamHorizontal       = "posHorizontal"
	ParamMaxWidth         = "maxWidthPercent"
	ParamMaxHeight        = "maxHeightPercent"
	ParamWaterColor       = "waterColor"
	ParamDeepWaterColor   = "deepWaterColor"
	ParamDamageColor      = "damageColor"
	ParamBushColor        = "bushColor"
	ParamPassableColor    = "passableColor"
	ParamImpassableColor  = "impassableColor"
	ParamPlayerColor      = "playerColor"
	ParamMarkerColor      = "markerColor"
)

type HPos int

const (
	Left HPos = iota
	Center
	Right
)

func ParseHPos(s string) HPos {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "middle", "center":
		return Center
	case "right":
		return Right
	default:
		return Left
	}
}

func (h HPos) String() string {
	switch h {
	case Center:
		return "middle"
	case Right:
		return "right"
	default:
		return "left"
	}
}

type VPos int

const (
	Top VPos = iota
	Middle
	Bottom
)

func ParseVPos(s string) VPos {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "middle", "center":
		return Middle
	case "bottom":
		return Bottom
	default:
		return Top
	}
}

func (v VPos) String() string {
	switch v {
	case Middle:
		return "middle"
	case Bottom:
		return "bottom"
	default:
		return "top"
	}
}

// Config is usually built from DefaultConfig or ParseParameters. A zero
// Config is taken as DefaultConfig; otherwise zero sizes and colors fall back
// to their defaults and a zero Opacity is kept.
type Config struct {
	HideDuringEvents bool
	SwitchID         int
	// Opacity is applied to the whole overlay once the first texture is
	// built, 0..255.
	Opacity          int
	Horizontal       HPos
	Vertical         VPos
	MaxWidthPercent  float64
	MaxHeightPercent float64
	Colors           palette.Strings
	Metrics          ports.MinimapMetrics
}

func DefaultConfig() Config {
	return Config{
		HideDuringEvents: true,
		SwitchID:         0,
		Opacity:          128,
		Horizontal:       Left,
		Vertical:         Top,
		MaxWidthPercent:  25,
		MaxHeightPercent: 50,
		Colors:           palette.DefaultStrings(),
	}
}

// ParseParameters reads plugin-style string parameters. Missing or malformed
// entries keep their default.
func ParseParameters(params map[string]string) Config {
	cfg := DefaultConfig()
	cfg.HideDuringEvents = params[ParamHideDuringEvents] != "false"
	cfg.SwitchID = int(positiveNumber(params[ParamSwitch], 0))
	if v, err := strconv.Atoi(strings.TrimSpace(params[ParamOpacity])); err == nil {
		cfg.Opacity = clampOpacity(v)
	}
	cfg.Vertical = ParseVPos(params[ParamVertical])
	cfg.Horizontal = ParseHPos(params[ParamHorizontal])
	cfg.MaxWidthPercent = positiveNumber(params[ParamMaxWidth], cfg.MaxWidthPercent)
	cfg.MaxHeightPercent = positiveNumber(params[ParamMaxHeight], cfg.MaxHeightPercent)

	colors := []struct {
		key string
		dst *string
	}{
		{ParamWaterColor, &cfg.Colors.Water},
		{ParamDeepWaterColor, &cfg.Colors.DeepWater},
		{ParamDamageColor, &cfg.Colors.Damage},
		{ParamBushColor, &cfg.Colors.Bush},
		{ParamPassableColor, &cfg.Colors.Passable},
		{ParamImpassableColor, &cfg.Colors.Impassable},
		{ParamPlayerColor, &cfg.Colors.Player},
		{ParamMarkerColor, &cfg.Colors.Marker},
	}
	for _, c := range colors {
		if v := strings.TrimSpace(params[c.key]); v != "" {
			*c.dst = v
		}
	}
	return cfg
}

func positiveNumber(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func clampOpacity(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()
	bare := cfg
	bare.Metrics = nil
	if bare == (Config{}) {
		def.Metrics = cfg.Metrics
		cfg = def
	}
	if cfg.MaxWidthPercent <= 0 {
		cfg.MaxWidthPercent = def.MaxWidthPercent
	}
	if cfg.MaxHeightPercent <= 0 {
		cfg.MaxHeightPercent = def.MaxHeightPercent
	}
	if cfg.Colors == (palette.Strings{}) {
		cfg.Colors = def.Colors
	}
	if cfg.SwitchID < 0 {
		cfg.SwitchID = 0
	}
	cfg.Opacity = clampOpacity(cfg.Opacity)
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	return cfg
}
