package board

import (
	"fmt"

	errs "goban/internal/errors"
)

// Group is a maximal set of same-colored stones connected orthogonally.
type Group struct {
	Color  Cell
	Stones []Point
}

func (g Group) Len() int {
	return len(g.Stones)
}

func (g Group) Contains(p Point) bool {
	for _, s := range g.Stones {
		if s == p {
			return true
		}
	}
	return false
}

// GroupAndLiberties flood-fills the group containing p and counts its
// liberties. An empty cell touching several stones of the group is counted
// once.
func GroupAndLiberties(b Board, p Point) (Group, int, error) {
	color, err := b.Get(p)
	if err != nil {
		return Group{}, 0, err
	}
	if color == Empty {
		return Group{}, 0, fmt.Errorf("group at %s: %w", p, errs.ErrEmptyCell)
	}

	group := Group{Color: color}
	liberties := make(map[Point]struct{})
	visited := map[Point]struct{}{p: {}}
	queue := []Point{p}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		group.Stones = append(group.Stones, cur)

		for _, n := range b.Neighbors(cur) {
			switch b.at(n) {
			case Empty:
				liberties[n] = struct{}{}
			case color:
				if _, seen := visited[n]; !seen {
					visited[n] = struct{}{}
					queue = append(queue, n)
				}
			}
		}
	}
	return group, len(liberties), nil
}

// HasLiberty reports whether the group containing p touches at least one
// empty cell. It stops at the first liberty found.
func HasLiberty(b Board, p Point) (bool, error) {
	color, err := b.Get(p)
	if err != nil {
		return false, err
	}
	if color == Empty {
		return false, fmt.Errorf("liberty check at %s: %w", p, errs.ErrEmptyCell)
	}

	visited := map[Point]struct{}{p: {}}
	stack := []Point{p}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range b.Neighbors(cur) {
			switch b.at(n) {
			case Empty:
				return true, nil
			case color:
				if _, seen := visited[n]; !seen {
					visited[n] = struct{}{}
					stack = append(stack, n)
				}
			}
		}
	}
	return false, nil
}
