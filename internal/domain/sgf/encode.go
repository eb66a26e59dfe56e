package sgf

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"goban/internal/domain/board"
	"goban/internal/domain/record"
	errs "goban/internal/errors"
)

// propertyOrder fixes the order properties are written in; anything else
// follows in alphabetical order.
var propertyOrder = []string{"FF", "GM", "SZ", "PB", "PW", "DT", "C", "B", "W"}

func Encode(r *record.Record) (string, error) {
	return EncodeWithInfo(r, Info{})
}

func EncodeWithInfo(r *record.Record, info Info) (string, error) {
	tree, err := Tree(r, info)
	if err != nil {
		return "", err
	}
	return Serialize(tree), nil
}

// Tree converts a record into a single-line SGF tree: a root node with the
// header followed by one node per move, oldest first.
func Tree(r *record.Record, info Info) (*SGF, error) {
	if r.Size() > MaxSize {
		return nil, fmt.Errorf("board size %d exceeds %d: %w", r.Size(), MaxSize, errs.ErrMalformedRecord)
	}
	moves, err := r.Placements()
	if err != nil {
		return nil, fmt.Errorf("encode sgf: %w", err)
	}

	root := Node{
		Properties: map[string][]string{
			"FF": {"4"},
			"GM": {"1"},
			"SZ": {strconv.Itoa(r.Size())},
		},
	}
	for key, value := range map[string]string{
		"PB": info.PlayerBlack,
		"PW": info.PlayerWhite,
		"DT": info.Date,
		"C":  info.Comment,
	} {
		if value != "" {
			root.Properties[key] = []string{value}
		}
	}

	tree := &GameTree{Nodes: []Node{root}}
	for _, m := range moves {
		coord, err := Coordinate(m.Point, r.Size())
		if err != nil {
			return nil, err
		}
		tree.Nodes = append(tree.Nodes, Node{
			Properties: map[string][]string{m.Color.Letter(): {coord}},
		})
	}
	return &SGF{Root: tree}, nil
}

func Serialize(s *SGF) string {
	var builder strings.Builder
	builder.WriteString("(")
	serializeGameTree(&builder, s.Root)
	builder.WriteString(")")
	return builder.String()
}

func serializeGameTree(builder *strings.Builder, tree *GameTree) {
	for _, node := range tree.Nodes {
		builder.WriteString(";")

		used := make(map[string]bool, len(node.Properties))
		for _, key := range propertyOrder {
			if values, ok := node.Properties[key]; ok {
				used[key] = true
				writeProperty(builder, key, values)
			}
		}

		rest := make([]string, 0)
		for key := range node.Properties {
			if !used[key] {
				rest = append(rest, key)
			}
		}
		slices.Sort(rest)
		for _, key := range rest {
			writeProperty(builder, key, node.Properties[key])
		}
	}

	for _, child := range tree.Children {
		builder.WriteString("(")
		serializeGameTree(builder, child)
		builder.WriteString(")")
	}
}

func writeProperty(builder *strings.Builder, key string, values []string) {
	builder.WriteString(key)
	for _, v := range values {
		builder.WriteString("[")
		builder.WriteString(escapeValue(v))
		builder.WriteString("]")
	}
}

var valueEscaper = strings.NewReplacer(`\`, `\\`, `]`, `\]`)

func escapeValue(v string) string {
	return valueEscaper.Replace(v)
}

// Coordinate maps a point to its two-letter SGF form, column first: (0,0)
// is "aa", (3,15) is "dp".
func Coordinate(p board.Point, size int) (string, error) {
	if size > MaxSize || p.X < 0 || p.Y < 0 || p.X >= size || p.Y >= size {
		return "", fmt.Errorf("sgf coordinate for %s on size %d: %w", p, size, errs.ErrOutOfBounds)
	}
	return string([]byte{byte('a' + p.X), byte('a' + p.Y)}), nil
}

// ParseCoordinate is the inverse of Coordinate.
func ParseCoordinate(s string, size int) (board.Point, error) {
	if len(s) != 2 {
		return board.Point{}, fmt.Errorf("sgf coordinate %q: %w", s, errs.ErrOutOfBounds)
	}
	p := board.Point{X: int(s[0]) - 'a', Y: int(s[1]) - 'a'}
	if p.X < 0 || p.Y < 0 || p.X >= size || p.Y >= size || size > MaxSize {
		return board.Point{}, fmt.Errorf("sgf coordinate %q on size %d: %w", s, size, errs.ErrOutOfBounds)
	}
	return p, nil
}

// Vertex renders a point the way Go players read it: column letter without
// I, row number counted from the bottom. (3,3) on 19x19 is "D16".
func Vertex(p board.Point, size int) string {
	col := byte('A' + p.X)
	if col >= 'I' {
		col++
	}
	return fmt.Sprintf("%c%d", col, size-p.Y)
}
