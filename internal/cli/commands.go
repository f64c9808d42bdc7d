package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/keymap"
)

// Command operations accepted on the central's input.
const (
	OpOn     = "on"
	OpOff    = "off"
	OpToggle = "tog"
	OpTo     = "to"
	OpShow   = "show"
	OpQuit   = "quit"
)

// ErrQuit is returned by Apply for the quit command.
var ErrQuit = errors.New("quit")

// Command is one parsed input line.
type Command struct {
	Op    string
	Layer domain.Layer
}

// ParseCommand parses "on N", "off N", "tog N", "to N", "show" or "quit".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	op := fields[0]
	switch op {
	case "q", "exit":
		op = OpQuit
	case "toggle":
		op = OpToggle
	}

	switch op {
	case OpShow, OpQuit:
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("%s takes no arguments", op)
		}
		return Command{Op: op}, nil
	case OpOn, OpOff, OpToggle, OpTo:
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: %s <layer>", op)
		}
		n, err := strconv.ParseUint(fields[1], 10, 8)
		if err != nil {
			return Command{}, fmt.Errorf("invalid layer %q: must be 0-%d", fields[1], domain.MaxLayers-1)
		}
		return Command{Op: op, Layer: domain.Layer(n)}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}

// Apply runs cmd against the keymap.
func Apply(ctx context.Context, km *keymap.Keymap, cmd Command) error {
	switch cmd.Op {
	case OpOn:
		return km.Activate(ctx, cmd.Layer)
	case OpOff:
		return km.Deactivate(ctx, cmd.Layer)
	case OpToggle:
		return km.Toggle(ctx, cmd.Layer)
	case OpTo:
		return km.To(ctx, cmd.Layer)
	case OpShow:
		return nil
	case OpQuit:
		return ErrQuit
	}
	return fmt.Errorf("unknown command %q", cmd.Op)
}
