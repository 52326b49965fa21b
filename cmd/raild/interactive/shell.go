// Package interactive provides the interactive command-line interface
// for raild.
package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"github.com/railseq/railseq-go/pkg/controller"
	"github.com/railseq/railseq-go/pkg/sequencer"
	"github.com/railseq/railseq-go/pkg/supply"
)

// Shell handles interactive mode for raild.
type Shell struct {
	ctrl     *controller.Controller
	registry *supply.Registry
	rl       *readline.Instance
}

// New creates a new interactive shell over the controller.
func New(ctrl *controller.Controller, registry *supply.Registry) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "raild> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{
		ctrl:     ctrl,
		registry: registry,
		rl:       rl,
	}, nil
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "rails", "ls":
			s.cmdRails()

		case "supplies":
			s.cmdSupplies()

		case "status", "st":
			s.cmdStatus(args)

		case "enable", "on":
			s.cmdEnable(args)

		case "disable", "off":
			s.cmdDisable(args)

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
raild Commands:
  rails              - List registered rails with state and use count
  supplies           - List registered supplies
  status [rail]      - Show rail details (all rails when omitted)
  enable <rail>      - Acquire the rail (powers on at first use)
  disable <rail>     - Release the rail (powers off at last use)
  help               - Show this help
  quit               - Exit raild`)
}

// cmdRails lists all registered rails.
func (s *Shell) cmdRails() {
	names := s.ctrl.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No rails registered")
		return
	}

	for _, name := range names {
		enabled, err := s.ctrl.IsEnabled(name)
		if err != nil {
			continue
		}
		users, _ := s.ctrl.Users(name)

		state := "off"
		if enabled {
			state = "on"
		}
		fmt.Fprintf(s.rl.Stdout(), "  %-20s %-4s users=%d\n", name, state, users)
	}
}

// cmdSupplies lists all registered supplies.
func (s *Shell) cmdSupplies() {
	names := s.registry.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No supplies registered")
		return
	}
	for _, name := range names {
		fmt.Fprintf(s.rl.Stdout(), "  %s\n", name)
	}
}

// cmdStatus shows detailed rail state.
func (s *Shell) cmdStatus(args []string) {
	names := args
	if len(names) == 0 {
		names = s.ctrl.Names()
	}

	for _, name := range names {
		seq, err := s.ctrl.Rail(name)
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "%s: %v\n", name, err)
			continue
		}

		users, _ := s.ctrl.Users(name)
		state := "off"
		if seq.IsEnabled() {
			state = "on"
		}
		fmt.Fprintf(s.rl.Stdout(), "%s: %s, users=%d\n", name, state, users)

		for i, d := range seq.Descriptors() {
			resolved := ""
			if !d.Resolved() {
				resolved = " (unresolved)"
			}
			fmt.Fprintf(s.rl.Stdout(), "  [%d] %s%s\n", i, d.Name(), resolved)
		}
	}
}

// cmdEnable acquires a rail.
func (s *Shell) cmdEnable(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: enable <rail>")
		return
	}
	name := args[0]

	if err := s.ctrl.Acquire(name); err != nil {
		if se, ok := sequencer.AsStepError(err); ok {
			fmt.Fprintf(s.rl.Stdout(), "Enable failed at supply %q (index %d): %v\n",
				se.Supply, se.Index, se.Err)
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "Enable failed: %v\n", err)
		return
	}

	users, _ := s.ctrl.Users(name)
	fmt.Fprintf(s.rl.Stdout(), "Rail %q acquired (users=%d)\n", name, users)
}

// cmdDisable releases a rail.
func (s *Shell) cmdDisable(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: disable <rail>")
		return
	}
	name := args[0]

	if err := s.ctrl.Release(name); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Release failed: %v\n", err)
		return
	}

	users, _ := s.ctrl.Users(name)
	fmt.Fprintf(s.rl.Stdout(), "Rail %q released (users=%d)\n", name, users)
}
