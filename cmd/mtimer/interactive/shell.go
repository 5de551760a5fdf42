// Package interactive provides the interactive command-line interface
// for mtimer.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"github.com/mtimer/mtimer-go/pkg/countdown"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/service"
)

// Shell handles interactive mode for mtimer.
type Shell struct {
	svc *service.TimerService
	rl  *readline.Instance
	out io.Writer

	unobserve func()
}

// New creates a readline shell over svc. Finish notifications from pres are
// printed above the prompt.
func New(svc *service.TimerService, pres *presenter.Memory) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mtimer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := newShell(svc, pres, rl.Stdout())
	s.rl = rl
	return s, nil
}

func newShell(svc *service.TimerService, pres *presenter.Memory, out io.Writer) *Shell {
	s := &Shell{svc: svc, out: out}
	if pres != nil {
		s.unobserve = pres.Observe(s.handleEvent)
	}
	return s
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("add"),
		readline.PcItem("list"),
		readline.PcItem("start"),
		readline.PcItem("pause"),
		readline.PcItem("reset"),
		readline.PcItem("length"),
		readline.PcItem("color"),
		readline.PcItem("name"),
		readline.PcItem("save"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// SetService attaches the timer service. Commands fail until it is set.
func (s *Shell) SetService(svc *service.TimerService) {
	s.svc = svc
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()
	if s.unobserve != nil {
		defer s.unobserve()
	}

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
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if quit := s.Execute(ctx, line); quit {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line. It reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "add", "a":
		err = s.cmdAdd(ctx)
	case "list", "ls", "l":
		err = s.cmdList(ctx)
	case "start", "s":
		err = s.withID(ctx, args, func(id int) error { return s.svc.StartTimer(ctx, id) })
	case "pause", "p":
		err = s.withID(ctx, args, func(id int) error { return s.svc.Pause(ctx, id) })
	case "reset", "r":
		err = s.withID(ctx, args, func(id int) error { return s.svc.Reset(ctx, id) })
	case "length", "len":
		err = s.cmdLength(ctx, args)
	case "color":
		err = s.cmdColor(ctx, args)
	case "name":
		err = s.cmdName(ctx, args)
	case "save":
		err = s.cmdSave(ctx)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
mtimer Commands:
  Timers:
    add                      - Add a one-minute timer
    list                     - Show all timers
    start <id>               - Start or resume a timer
    pause <id>               - Pause a timer
    reset <id>               - Reset a timer to one minute

  Settings:
    length <id> <h> <m> <s>  - Set the length of a stopped timer
    color <id> <#rrggbb>     - Set the timer color
    name <id> <name...>      - Rename a timer

  General:
    save                     - Save all timers now
    help                     - Show this help
    quit                     - Exit`)
}

func (s *Shell) handleEvent(ev presenter.Event) {
	if ev.Kind != presenter.EventFinished {
		return
	}
	fmt.Fprintf(s.out, "\a*** Timer %d (%s) finished ***\n", ev.ID, ev.View.Name)
}

func (s *Shell) withID(ctx context.Context, args []string, fn func(id int) error) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := fn(id); err != nil {
		return err
	}
	return s.printTimer(ctx, id)
}

func (s *Shell) cmdAdd(ctx context.Context) error {
	id, err := s.svc.Add(ctx)
	if err != nil {
		return err
	}
	return s.printTimer(ctx, id)
}

func (s *Shell) cmdList(ctx context.Context) error {
	timers, err := s.svc.Timers(ctx)
	if err != nil {
		return err
	}
	if len(timers) == 0 {
		fmt.Fprintln(s.out, "No timers (use 'add' to create one)")
		return nil
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTIME\tSTATE\tCOLOR")
	for _, t := range timers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Display, t.State, t.Color)
	}
	return tw.Flush()
}

func (s *Shell) cmdLength(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return errors.New("usage: length <id> <hours> <minutes> <seconds>")
	}
	id, err := parseID(args[:1])
	if err != nil {
		return err
	}

	length, err := s.svc.SetLength(ctx, id, args[1], args[2], args[3])
	if errors.Is(err, countdown.ErrTimerRunning) {
		return fmt.Errorf("timer %d is running, pause it first", id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Length set to %dh %dm %ds\n", length.Hours, length.Minutes, length.Seconds)
	return s.printTimer(ctx, id)
}

func (s *Shell) cmdColor(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: color <id> <#rrggbb>")
	}
	id, err := parseID(args[:1])
	if err != nil {
		return err
	}
	if err := s.svc.SetColor(ctx, id, args[1]); err != nil {
		return err
	}
	return s.printTimer(ctx, id)
}

func (s *Shell) cmdName(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: name <id> <name...>")
	}
	id, err := parseID(args[:1])
	if err != nil {
		return err
	}
	if err := s.svc.SetName(ctx, id, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	return s.printTimer(ctx, id)
}

func (s *Shell) cmdSave(ctx context.Context) error {
	if err := s.svc.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Saved")
	return nil
}

func (s *Shell) printTimer(ctx context.Context, id int) error {
	t, err := s.svc.Timer(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "[%d] %s  %s  %s\n", t.ID, t.Name, t.Display, t.State)
	return nil
}

func parseID(args []string) (int, error) {
	if len(args) < 1 {
		return 0, errors.New("missing timer id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid timer id %q", args[0])
	}
	return id, nil
}
