package sgf

const (
	FileName = "game.sgf"
	MimeType = "application/x-go-sgf"

	// MaxSize is the largest board whose coordinates fit in one lowercase
	// letter per axis.
	MaxSize = 26
)

// GameTree is one SGF tree: the main line of nodes plus variations.
type GameTree struct {
	Nodes    []Node
	Children []*GameTree
}

// Node is a set of SGF properties such as B[pd], W[dd] or C[...]. A
// property may carry several values, e.g. AB[aa][bb].
type Node struct {
	Properties map[string][]string
}

type SGF struct {
	Root *GameTree
}

// Info holds optional root properties written after the size.
type Info struct {
	PlayerBlack string
	PlayerWhite string
	Date        string
	Comment     string
}
