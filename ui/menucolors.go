package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the Nord-inspired color palette for panels and the overlay.
var MenuColors = struct {
	Border      tcell.Color // Muted blue-gray for borders
	BorderFocus tcell.Color // Brighter blue for the panel taking input
	CardBG      tcell.Color // Dark gray background
	Title       tcell.Color // Bright white for title
	TitleAccent tcell.Color // Blue accent for decoration
	Label       tcell.Color // Light gray for text rows
	Hint        tcell.Color // Dim gray for unfocused buttons
	ButtonFocus tcell.Color // Focused button
	ButtonText  tcell.Color // Button text
	OverlayBG   tcell.Color // Behind the frame rate lines
}{
	Border:      tcell.PaletteColor(60),
	BorderFocus: tcell.PaletteColor(109),
	CardBG:      tcell.PaletteColor(236),
	Title:       tcell.PaletteColor(255),
	TitleAccent: tcell.PaletteColor(109),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	ButtonFocus: tcell.PaletteColor(109),
	ButtonText:  tcell.PaletteColor(255),
	OverlayBG:   tcell.ColorBlack,
}
