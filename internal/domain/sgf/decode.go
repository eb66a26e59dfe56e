package sgf

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"goban/internal/domain/board"
	"goban/internal/domain/record"
	errs "goban/internal/errors"
)

var (
	headerPattern = regexp.MustCompile(`\(\s*;`)
	sizePattern   = regexp.MustCompile(`SZ\[\s*(\d+)\s*\]`)
	movePattern   = regexp.MustCompile(`;\s*(B|W)\[([a-z]{2})\]`)
)

// Decode rebuilds a record from SGF text by placing every B/W move in file
// order. Stones are placed as written: captures and ko are not resolved, and
// a move onto an occupied cell overwrites it. Text without an SGF header
// decodes to an empty 19x19 game.
func Decode(text string) (*record.Record, error) {
	return Place(Moves(text))
}

// Place builds a record with one snapshot per move, each stone set on top of
// the previous board.
func Place(size int, moves []record.Move) (*record.Record, error) {
	empty, err := board.New(size)
	if err != nil {
		return nil, err
	}

	oldestFirst := make([]board.Board, 0, len(moves)+1)
	oldestFirst = append(oldestFirst, empty)
	current := empty
	for _, m := range moves {
		current, err = current.WithStone(m.Point, m.Color)
		if err != nil {
			return nil, err
		}
		oldestFirst = append(oldestFirst, current)
	}
	slices.Reverse(oldestFirst)
	return record.FromSnapshots(oldestFirst)
}

// AppendMove adds one move node to the end of the main line.
func AppendMove(text string, m record.Move) (string, error) {
	if !headerPattern.MatchString(text) {
		return "", fmt.Errorf("append %s: no sgf header: %w", m, errs.ErrMalformedRecord)
	}
	size, _ := Moves(text)
	coord, err := Coordinate(m.Point, size)
	if err != nil {
		return "", err
	}
	letter := m.Color.Letter()
	if letter == "" {
		return "", fmt.Errorf("append %s: %w", m, errs.ErrInvalidColor)
	}
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	text = strings.TrimSuffix(text, ")")
	return text + ";" + letter + "[" + coord + "])", nil
}

// Moves scans SGF text for the board size and the B/W placements. Moves
// whose coordinates fall off the board, passes (B[]) and every other
// property are skipped.
func Moves(text string) (int, []record.Move) {
	if !headerPattern.MatchString(text) {
		return board.DefaultSize, nil
	}

	size := board.DefaultSize
	if m := sizePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= MaxSize {
			size = n
		}
	}

	var moves []record.Move
	for _, m := range movePattern.FindAllStringSubmatch(text, -1) {
		p, err := ParseCoordinate(m[2], size)
		if err != nil {
			continue
		}
		color := board.Black
		if m[1] == "W" {
			color = board.White
		}
		moves = append(moves, record.Move{Color: color, Point: p})
	}
	return size, moves
}
