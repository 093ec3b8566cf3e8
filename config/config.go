package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"igo-local/engine"
	"igo-local/fpscounter"
)

var (
	cfgFile     = "igo-local/config.json"
	historyDir  = "igo-local/history"
	logFileName = "igo-local/igo-local.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor int `json:"board"`
	BlackColor int `json:"black"`
	WhiteColor int `json:"white"`
	LineColor  int `json:"line"`
	HoshiColor int `json:"hoshi"`
}

type ConfigSymbols struct {
	BlackStone  rune `json:"black"`
	WhiteStone  rune `json:"white"`
	BoardSquare rune `json:"board"`
	Hoshi       rune `json:"hoshi"`
}

type Theme struct {
	DrawStoneBackground bool          `json:"draw_stone_bg"`
	UseGridLines        bool          `json:"use_grid_lines"`
	Colors              ConfigColors  `json:"colors"`
	Symbols             ConfigSymbols `json:"symbols"`
}

// GameConfig holds the session and engine settings.
type GameConfig struct {
	BoardSize      int     `json:"board_size" env:"BOARD_SIZE"`
	Komi           float64 `json:"komi" env:"KOMI"`
	Engine         string  `json:"engine" env:"ENGINE"`
	GnuGoPath      string  `json:"gnugo_path" env:"GNUGO_PATH"`
	GnuGoLevel     int     `json:"gnugo_level" env:"GNUGO_LEVEL"`
	MaxMoves       int     `json:"max_moves" env:"MAX_MOVES"`
	TicksPerSecond int     `json:"ticks_per_second" env:"TPS"`
	Seed           uint64  `json:"seed" env:"SEED"`
	Record         bool    `json:"record" env:"RECORD"`
	HistoryDir     string  `json:"history_dir" env:"HISTORY_DIR"`
}

type LogConfig struct {
	Level string `json:"level" env:"LEVEL"`
	File  string `json:"file" env:"FILE"`
}

type Config struct {
	Theme      Theme              `json:"theme"`
	Game       GameConfig         `json:"game" envPrefix:"IGO_"`
	FPSCounter fpscounter.Options `json:"fps_counter" envPrefix:"IGO_FPS_"`
	Log        LogConfig          `json:"log" envPrefix:"IGO_LOG_"`
}

// InitConfig loads the config file from the XDG config dirs, if there is one, then
// applies environment overrides.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		absPath = ""
	}
	return Load(absPath)
}

// Load reads path over the defaults (an empty path reads nothing), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	config := DefaultConfig
	if path != "" {
		if err := readCfgFile(path, &config); err != nil {
			return nil, err
		}
	}
	if err := ParseEnv(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.BlackStone, c.Theme.Symbols.WhiteStone, c.Theme.Symbols.BoardSquare, c.Theme.Symbols.Hoshi} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	switch c.Game.BoardSize {
	case 9, 13, 19:
	default:
		return &InvalidConfig{fmt.Sprintf("board size must be 9, 13 or 19, got %d", c.Game.BoardSize)}
	}
	switch c.Game.Engine {
	case "local", "gnugo":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown engine %q", c.Game.Engine)}
	}
	if c.Game.GnuGoLevel < 1 || c.Game.GnuGoLevel > 10 {
		return &InvalidConfig{fmt.Sprintf("gnugo level must be 1-10, got %d", c.Game.GnuGoLevel)}
	}
	if c.Game.TicksPerSecond < 1 || c.Game.TicksPerSecond > 1000 {
		return &InvalidConfig{fmt.Sprintf("ticks per second must be 1-1000, got %d", c.Game.TicksPerSecond)}
	}
	if c.Game.MaxMoves < 0 {
		return &InvalidConfig{"max moves cannot be negative"}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return &InvalidConfig{fmt.Sprintf("log level: %s", err)}
	}
	return nil
}

// Engine returns the rules engine settings for a new session.
func (c *Config) Engine() engine.GameConfig {
	return engine.GameConfig{
		BoardSize:   c.Game.BoardSize,
		Komi:        c.Game.Komi,
		Engine:      c.Game.Engine,
		EngineLevel: c.Game.GnuGoLevel,
		EnginePath:  c.Game.GnuGoPath,
		MaxMoves:    c.Game.MaxMoves,
	}
}

// HistoryPath returns the directory game records are written to.
func (c *Config) HistoryPath() string {
	if c.Game.HistoryDir != "" {
		return c.Game.HistoryDir
	}
	return filepath.Join(xdg.DataHome, historyDir)
}

// LogPath returns the log file used by the terminal UI, creating its directory.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(logFileName)
}

// FilePath returns the XDG config file, creating its directory.
func FilePath() (string, error) {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", fmt.Errorf("locate config file: %w", err)
	}
	return absPath, nil
}

// SaveOverlay stores o in the config file at path. The rest of the file is written
// back as read; environment and flag overrides never reach it.
func SaveOverlay(path string, o fpscounter.Options) error {
	stored := DefaultConfig
	if err := readCfgFile(path, &stored); err != nil {
		return err
	}
	stored.FPSCounter = o
	return SaveFile(path, &stored)
}

// SaveFile writes c as indented JSON to path.
func SaveFile(path string, c *Config) error {
	return saveCfgFile(path, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filePath, jsonData, perm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %s", filePath, err)}
	}
	return nil
}
