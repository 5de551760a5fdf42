// Command mtimer-log is a tool for viewing and analyzing timer event logs.
//
// Log files are written by mtimer and mtimer-web when started with
// -event-log (or log.event_log in the configuration file).
//
// Usage:
//
//	mtimer-log <command> [flags] <file.tlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	mtimer-log view events.tlog
//
//	# View only timer 3
//	mtimer-log view -timer 3 events.tlog
//
//	# Export to CSV
//	mtimer-log export -format csv -o events.csv events.tlog
//
//	# Keep only errors of one run
//	mtimer-log filter -session 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed -category error -o errors.tlog events.tlog
//
//	# Show statistics
//	mtimer-log stats events.tlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mtimer/mtimer-go/cmd/mtimer-log/commands"
)

const usage = `mtimer-log - Timer Event Log Analyzer

Usage:
  mtimer-log <command> [flags] <file.tlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "mtimer-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// logPath returns the single positional argument or exits with usage.
func logPath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func newFlagSet(name, summary, usageLine string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "mtimer-log %s - %s\n\nUsage:\n  %s\n\nFlags:\n", name, summary, usageLine)
		fs.PrintDefaults()
	}
	return fs
}

func runView(args []string) {
	fs := newFlagSet("view", "View log file in human-readable format", "mtimer-log view [flags] <file.tlog>")
	session := fs.String("session", "", "Filter by session ID")
	timer := fs.String("timer", "", "Filter by timer ID")
	category := fs.String("category", "", "Filter by category (state, snapshot, error)")
	state := fs.String("state", "", "Filter by state entered (idle, running, finished)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	filter := commands.ViewFilter{SessionID: *session, State: *state}
	if *timer != "" {
		id, err := commands.ParseTimerFlag(*timer)
		if err != nil {
			fail(err)
		}
		filter.TimerID = &id
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export log file to JSONL or CSV format", "mtimer-log export [flags] <file.tlog>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter log file and write to new file", "mtimer-log filter [flags] <file.tlog>")
	output := fs.String("o", "", "Output file (required)")
	session := fs.String("session", "", "Filter by session ID")
	timer := fs.String("timer", "", "Filter by timer ID")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	category := fs.String("category", "", "Filter by category (state, snapshot, error)")
	state := fs.String("state", "", "Filter by state entered (idle, running, finished)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, commands.FilterOptions{
		Output:    *output,
		SessionID: *session,
		TimerID:   *timer,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
		Category:  *category,
		State:     *state,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the log file", "mtimer-log stats <file.tlog>")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
