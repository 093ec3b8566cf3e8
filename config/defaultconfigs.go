package config

import "igo-local/fpscounter"

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawStoneBackground: false,
		UseGridLines:        true,
		Colors: ConfigColors{
			BoardColor: 180,
			BlackColor: 232,
			WhiteColor: 255,
			LineColor:  94,
			HoshiColor: 94,
		},
		Symbols: ConfigSymbols{
			BlackStone:  '●',
			WhiteStone:  '●',
			BoardSquare: '┼',
			Hoshi:       '◦',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameConfig{
			BoardSize:      9,
			Komi:           6.5,
			Engine:         "local",
			GnuGoPath:      "gnugo",
			GnuGoLevel:     5,
			TicksPerSecond: 10,
			Record:         true,
		},
		FPSCounter: fpscounter.DefaultOptions(),
		Log: LogConfig{
			Level: "info",
		},
	}
}
