// Package sgf writes and reads SGF FF[4] records of watched games.
package sgf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"igo-local/types"
)

// Header describes a game for the SGF root node.
type Header struct {
	GameName    string // session id
	BoardSize   int
	Komi        float64
	PlayerBlack string
	PlayerWhite string
}

// GameRecord tracks a game in progress and writes it as SGF. The file is rewritten
// on every change so an interrupted game still leaves a readable record.
type GameRecord struct {
	FilePath string
	Header
	Date   string
	Result string
	moves  []string // ";B[pd]", ";W[]", ...
	file   *os.File
}

// NewGameRecord creates a new SGF file in dir and writes the initial header.
func NewGameRecord(dir string, h Header) (*GameRecord, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	now := time.Now()
	path := filepath.Join(dir, recordFileName(now, h))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create sgf file: %w", err)
	}

	rec := &GameRecord{
		FilePath: path,
		Header:   h,
		Date:     now.Format("2006-01-02"),
		Result:   "?",
		file:     f,
	}
	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}
	return rec, nil
}

// recordFileName sorts by start time; the session prefix keeps games started within
// the same second apart.
func recordFileName(now time.Time, h Header) string {
	session := h.GameName
	if len(session) > 8 {
		session = session[:8]
	}
	if session == "" {
		session = "game"
	}
	return fmt.Sprintf("%s_%s_%dx%d.sgf", now.Format("2006-01-02_150405"), session, h.BoardSize, h.BoardSize)
}

// sgfCoord converts 0-indexed board coordinates to SGF letter pair.
// (0,0) -> "aa", (3,4) -> "de", (18,18) -> "ss".
func sgfCoord(x, y int) string {
	return string(rune('a'+x)) + string(rune('a'+y))
}

func colorChar(s types.Stone) string {
	if s == types.White {
		return "W"
	}
	return "B"
}

// AddHand appends a hand to the record.
func (r *GameRecord) AddHand(h types.Hand) error {
	if h.Pass {
		r.moves = append(r.moves, fmt.Sprintf(";%s[]", colorChar(h.Stone)))
	} else {
		r.moves = append(r.moves, fmt.Sprintf(";%s[%s]", colorChar(h.Stone), sgfCoord(h.Pos.X, h.Pos.Y)))
	}
	return r.flush()
}

// Moves returns the number of recorded hands.
func (r *GameRecord) Moves() int {
	return len(r.moves)
}

// SetResult sets the RE property. It accepts SGF results like "W+5.5" or "B+R" as
// well as GnuGo style text like "White wins by 5.5 points".
func (r *GameRecord) SetResult(outcome string) error {
	r.Result = parseResult(outcome)
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *GameRecord) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.flush()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	r.file = nil
	return err
}

// flush rewrites the complete SGF file from scratch.
func (r *GameRecord) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	var b strings.Builder
	b.WriteString("(;GM[1]FF[4]CA[UTF-8]")
	b.WriteString("AP[igo-local:1.0]")
	if r.GameName != "" {
		fmt.Fprintf(&b, "GN[%s]", escape(r.GameName))
	}
	fmt.Fprintf(&b, "SZ[%d]", r.BoardSize)
	fmt.Fprintf(&b, "KM[%.1f]", r.Komi)
	fmt.Fprintf(&b, "PB[%s]", escape(r.PlayerBlack))
	fmt.Fprintf(&b, "PW[%s]", escape(r.PlayerWhite))
	fmt.Fprintf(&b, "DT[%s]", r.Date)
	fmt.Fprintf(&b, "RE[%s]", r.Result)
	b.WriteString("\n")
	for _, m := range r.moves {
		b.WriteString(m)
	}
	b.WriteString(")\n")

	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.WriteString(b.String()); err != nil {
		return err
	}
	return r.file.Sync()
}

// escape protects the characters SGF text values treat specially.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "]", `\]`)
}

// parseResult converts various outcome formats to SGF RE[] value.
func parseResult(outcome string) string {
	o := strings.TrimSpace(outcome)
	if isValidSGFResult(o) {
		return o
	}

	low := strings.ToLower(o)
	var winner string
	switch {
	case strings.HasPrefix(low, "white wins"):
		winner = "W"
	case strings.HasPrefix(low, "black wins"):
		winner = "B"
	default:
		return "?"
	}

	byIdx := strings.Index(low, " by ")
	if byIdx == -1 {
		return winner + "+?"
	}
	rest := strings.TrimSpace(low[byIdx+4:])

	switch {
	case strings.HasPrefix(rest, "resign"):
		return winner + "+R"
	case strings.HasPrefix(rest, "time"):
		return winner + "+T"
	case strings.HasPrefix(rest, "forfeit"):
		return winner + "+F"
	}

	if parts := strings.Fields(rest); len(parts) > 0 && isScore(parts[0]) {
		return winner + "+" + parts[0]
	}
	return winner + "+?"
}

// isScore reports whether s is a non-negative decimal like "5" or "5.5".
func isScore(s string) bool {
	if s == "" {
		return false
	}
	dotSeen := false
	for _, ch := range s {
		switch {
		case ch == '.' && !dotSeen:
			dotSeen = true
		case ch < '0' || ch > '9':
			return false
		}
	}
	return true
}

// isValidSGFResult checks if a string is already a valid SGF result.
func isValidSGFResult(s string) bool {
	switch s {
	case "?", "Jigo", "Void", "0":
		return true
	}
	if len(s) < 3 || (s[0] != 'B' && s[0] != 'W') || s[1] != '+' {
		return false
	}
	switch rest := s[2:]; rest {
	case "R", "T", "F", "?":
		return true
	default:
		return isScore(rest)
	}
}
