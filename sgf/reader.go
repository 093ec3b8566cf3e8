package sgf

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"igo-local/engine"
	"igo-local/engine/local"
	"igo-local/types"
)

// GameInfo holds metadata parsed from an SGF file header.
type GameInfo struct {
	FilePath    string
	FileName    string
	GameName    string
	BoardSize   int
	Komi        float64
	PlayerBlack string
	PlayerWhite string
	Date        string
	Result      string
	MoveCount   int
}

// ParseHeader reads an SGF file and extracts metadata from the root node.
func ParseHeader(filePath string) (*GameInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	content := string(data)
	props := parseProperties(content)

	return &GameInfo{
		FilePath:    filePath,
		FileName:    filepath.Base(filePath),
		GameName:    props["GN"],
		BoardSize:   boardSize(props),
		Komi:        komi(props),
		PlayerBlack: props["PB"],
		PlayerWhite: props["PW"],
		Date:        props["DT"],
		Result:      props["RE"],
		MoveCount:   countMoves(content),
	}, nil
}

func boardSize(props map[string]string) int {
	if n, err := strconv.Atoi(props["SZ"]); err == nil && n > 0 {
		return n
	}
	return 19
}

func komi(props map[string]string) float64 {
	if f, err := strconv.ParseFloat(props["KM"], 64); err == nil {
		return f
	}
	return 0
}

// ParseMoves returns the hands of a record in play order.
func ParseMoves(filePath string) ([]types.Hand, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var hands []types.Hand
	for _, node := range parseNodes(string(data)) {
		if h, ok := parseMoveNode(node); ok {
			hands = append(hands, h)
		}
	}
	return hands, nil
}

// ReplayToEnd plays a record through the local rules engine and returns the final
// position and the number of hands read.
func ReplayToEnd(filePath string) (*types.BoardState, int, error) {
	info, err := ParseHeader(filePath)
	if err != nil {
		return nil, 0, err
	}
	hands, err := ParseMoves(filePath)
	if err != nil {
		return nil, 0, err
	}

	g := local.New(engine.GameConfig{
		BoardSize: info.BoardSize,
		Komi:      info.Komi,
		MaxMoves:  math.MaxInt,
	})
	for _, h := range hands {
		if !h.Pass && (h.Pos.X >= info.BoardSize || h.Pos.Y >= info.BoardSize) {
			continue
		}
		g.PutHand(h)
	}
	return g.Board(), len(hands), nil
}

// parseProperties extracts KEY[value] pairs from the root node of an SGF string.
func parseProperties(content string) map[string]string {
	props := make(map[string]string)

	start := strings.Index(content, "(;")
	if start == -1 {
		return props
	}
	start += 2

	// Root node ends at the next ";" or ")" outside a value
	end := skipNode(content, start)
	extractProps(content[start:end], props)
	return props
}

// skipNode returns the index of the first ";" or ")" at or after i that is not inside
// a property value.
func skipNode(content string, i int) int {
	for i < len(content) {
		switch content[i] {
		case ';', ')':
			return i
		case '[':
			i = skipValue(content, i+1)
		}
		i++
	}
	return len(content)
}

// skipValue returns the index of the "]" closing the value starting at i.
func skipValue(content string, i int) int {
	for i < len(content) && content[i] != ']' {
		if content[i] == '\\' && i+1 < len(content) {
			i++
		}
		i++
	}
	return i
}

// extractProps parses KEY[value] pairs from a node string into the map.
func extractProps(node string, props map[string]string) {
	i := 0
	for i < len(node) {
		for i < len(node) && strings.ContainsRune(" \n\r\t", rune(node[i])) {
			i++
		}
		if i >= len(node) {
			break
		}

		keyStart := i
		for i < len(node) && node[i] >= 'A' && node[i] <= 'Z' {
			i++
		}
		if i == keyStart {
			i++
			continue
		}
		key := node[keyStart:i]

		// Last value wins for multi-valued properties
		for i < len(node) && node[i] == '[' {
			end := skipValue(node, i+1)
			props[key] = unescape(node[i+1 : end])
			i = end + 1
		}
	}
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// countMoves counts the number of move nodes (;B[...] or ;W[...]) in the SGF.
func countMoves(content string) int {
	count := 0
	for i := 0; i+2 < len(content); i++ {
		if content[i] == ';' && (content[i+1] == 'B' || content[i+1] == 'W') && content[i+2] == '[' {
			count++
		}
	}
	return count
}

// parseNodes returns all node strings after the root node.
func parseNodes(content string) []string {
	var nodes []string

	start := strings.Index(content, "(;")
	if start == -1 {
		return nodes
	}
	i := skipNode(content, start+2)

	for i < len(content) {
		if content[i] != ';' {
			i++
			continue
		}
		end := skipNode(content, i+1)
		nodes = append(nodes, content[i:end])
		i = end
	}
	return nodes
}

// parseMoveNode extracts a hand from a move node like ";B[pd]" or ";W[]".
func parseMoveNode(node string) (types.Hand, bool) {
	node = strings.TrimSpace(node)
	if len(node) < 2 || node[0] != ';' {
		return types.Hand{}, false
	}

	var stone types.Stone
	switch node[1] {
	case 'B':
		stone = types.Black
	case 'W':
		stone = types.White
	default:
		return types.Hand{}, false
	}

	open := strings.Index(node, "[")
	end := strings.Index(node, "]")
	if open == -1 || end == -1 || end <= open {
		return types.Hand{}, false
	}

	coord := node[open+1 : end]
	switch len(coord) {
	case 0:
		return types.PassHand(stone), true
	case 2:
		return types.PutHand(stone, int(coord[0]-'a'), int(coord[1]-'a')), true
	}
	return types.Hand{}, false
}

// ListGames scans a directory for .sgf files and returns their parsed headers,
// sorted newest-first (by filename, which contains timestamps).
func ListGames(dir string) ([]GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var games []GameInfo
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sgf") {
			continue
		}
		info, err := ParseHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		games = append(games, *info)
	}
	return games, nil
}
