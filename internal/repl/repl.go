// Package repl implements the interactive tripcraft shell.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/tripcraft/tripcraft/internal/ai"
	"github.com/tripcraft/tripcraft/internal/session"
	"github.com/tripcraft/tripcraft/internal/suggest"
)

// REPL represents the interactive shell
type REPL struct {
	sess      *session.Session
	gen       ai.Generator
	suggester *suggest.Suggester
	shareBase string
	rl        *readline.Instance
	ctx       context.Context
	commands  map[string]CommandHandler
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Session   *session.Session
	Generator ai.Generator
	Suggester *suggest.Suggester
	ShareBase string
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	r := &REPL{
		sess:      cfg.Session,
		gen:       cfg.Generator,
		suggester: cfg.Suggester,
		shareBase: cfg.ShareBase,
		commands:  make(map[string]CommandHandler),
	}
	r.registerCommands()
	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("tripcraft> "),
		HistoryFile:       "",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	args := parts[1:]

	if handler, ok := r.commands[command]; ok {
		return handler(args)
	}
	return fmt.Errorf("unknown command %q (try 'help')", command)
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit

	r.commands["plan"] = r.cmdPlan
	r.commands["trips"] = r.cmdTrips
	r.commands["open"] = r.cmdOpen
	r.commands["show"] = r.cmdShow
	r.commands["status"] = r.cmdStatus
	r.commands["delete"] = r.cmdDelete

	r.commands["start-time"] = r.cmdStartTime
	r.commands["duration"] = r.cmdDuration
	r.commands["toggle"] = r.cmdToggle
	r.commands["done"] = r.cmdDone
	r.commands["start"] = r.cmdStart
	r.commands["end"] = r.cmdEnd

	r.commands["packing"] = r.cmdPacking
	r.commands["pack"] = r.cmdPack

	r.commands["share"] = r.cmdShare
	r.commands["import"] = r.cmdImport
	r.commands["export"] = r.cmdExport
	r.commands["suggest"] = r.cmdSuggest
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Welcome to tripcraft"))
	fmt.Println("AI road-trip itinerary planner")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"plan", "Plan a new trip (guided prompts)"},
		{"trips", "List saved trips"},
		{"open <n|id>", "Switch to a saved trip"},
		{"show", "Show the current itinerary"},
		{"status", "Progress, next stop, and journey time"},
		{"delete <n|id>", "Delete a saved trip"},
		{"", ""},
		{"start-time <day> <HH:MM>", "Shift a day's start time"},
		{"duration <stop> <minutes>", "Change a stop's duration"},
		{"toggle <stop>", "Select or deselect a stop (draft only)"},
		{"done <stop>", "Mark a stop completed (or uncomplete it)"},
		{"start / end", "Start or end trip tracking"},
		{"", ""},
		{"packing [gen]", "Show (or generate) the packing list"},
		{"pack <item>", "Check or uncheck a packing item"},
		{"", ""},
		{"share [qr <file.png>]", "Print the share link (or write a QR code)"},
		{"import <payload|url>", "Import a shared trip"},
		{"export <file.pdf>", "Write a printable itinerary"},
		{"suggest <partial>", "Autocomplete a place name"},
		{"", ""},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}
	for _, cmd := range commands {
		if cmd.name == "" {
			fmt.Println()
			continue
		}
		fmt.Printf("  %-28s %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Println()
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	r.rl.Close()
	return io.EOF
}

// promptLine reads one line with a temporary prompt.
func (r *REPL) promptLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	defer r.rl.SetPrompt(color.New(color.FgCyan).Sprint("tripcraft> "))
	line, err := r.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
