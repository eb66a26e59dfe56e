package play

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"goban/internal/domain/record"
	"goban/internal/domain/sgf"
	"goban/internal/usecase/rules"
)

type Command struct {
	write bool
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Append a legal move to an SGF file" }
func (*Command) Usage() string {
	return `play [-w] FILE.sgf COORD

Replay FILE.sgf, play the next move at COORD (SGF letters, e.g. "dd") for
the side to move and print the extended record. With -w the file is
rewritten in place.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.write, "w", false, "write the result back to the file")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	log := args[0].(*zap.SugaredLogger)
	if len(flag.Args()) != 2 {
		flag.Usage()
		return subcommands.ExitUsageError
	}
	path, coord := flag.Arg(0), flag.Arg(1)

	text, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("read %s: %v", path, err)
		return subcommands.ExitFailure
	}

	out, move, err := Append(string(text), coord)
	if err != nil {
		log.Errorf("play %s: %v", coord, err)
		return subcommands.ExitFailure
	}
	log.Infof("%s plays %s", move.Color, coord)

	if c.write {
		if err := os.WriteFile(path, []byte(out+"\n"), 0o644); err != nil {
			log.Errorf("write %s: %v", path, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	fmt.Println(out)
	return subcommands.ExitSuccess
}

// Append checks that coord is a legal next move of the game in text and
// returns text with the move added.
func Append(text, coord string) (string, record.Move, error) {
	r, err := rules.Replay(sgf.Moves(text))
	if err != nil {
		return "", record.Move{}, err
	}
	p, err := sgf.ParseCoordinate(coord, r.Size())
	if err != nil {
		return "", record.Move{}, err
	}

	move := record.Move{Color: r.Turn(), Point: p}
	if _, err := rules.Play(r, p); err != nil {
		return "", record.Move{}, err
	}
	out, err := sgf.AppendMove(text, move)
	if err != nil {
		return "", record.Move{}, err
	}
	return out, move, nil
}
