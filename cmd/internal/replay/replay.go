package replay

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"goban/internal/domain/record"
	"goban/internal/domain/sgf"
	"goban/internal/usecase/rules"
)

type Command struct {
	raw bool
	all bool
}

func (*Command) Name() string     { return "replay" }
func (*Command) Synopsis() string { return "Replay an SGF file and print the final position" }
func (*Command) Usage() string {
	return `replay [-raw] [-all] FILE.sgf

Replay the main line of an SGF file with full rule checking and print the
final board with capture counts. The first illegal move stops the replay.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.raw, "raw", false, "place stones as written, without captures or rule checks")
	flags.BoolVar(&c.all, "all", false, "print the board after every move")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	log := args[0].(*zap.SugaredLogger)
	if len(flag.Args()) != 1 {
		flag.Usage()
		return subcommands.ExitUsageError
	}

	text, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Errorf("read %s: %v", flag.Arg(0), err)
		return subcommands.ExitFailure
	}

	r, err := Load(string(text), c.raw)
	if err != nil {
		log.Errorf("replay %s: %v", flag.Arg(0), err)
		return subcommands.ExitFailure
	}

	if err := Print(os.Stdout, r, c.all); err != nil {
		log.Errorf("print: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// Load builds a record from SGF text, either rule-checked or raw.
func Load(text string, raw bool) (*record.Record, error) {
	if raw {
		return sgf.Decode(text)
	}
	return rules.Replay(sgf.Moves(text))
}

// Print writes the record's boards, oldest first when all is set, followed by
// the capture counts of the final position.
func Print(w io.Writer, r *record.Record, all bool) error {
	moves, err := r.Placements()
	if err != nil {
		return err
	}
	snapshots := r.Snapshots()
	if all {
		for i, m := range moves {
			fmt.Fprintf(w, "%d. %s %s\n%s\n\n", i+1, m.Color, sgf.Vertex(m.Point, r.Size()), snapshots[i+1])
		}
	} else {
		fmt.Fprintf(w, "%s\n\n", r.Current())
	}

	counts, err := r.CapturedCounts(r.Cursor())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "moves: %d  to play: %s  captured: black %d, white %d\n",
		r.MovesPlayed(), r.Turn(), counts.BlackCaptured, counts.WhiteCaptured)
	return err
}
