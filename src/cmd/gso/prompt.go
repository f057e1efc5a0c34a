package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads interactive answers from the user. Prompts are written to
// stderr so piped stdout stays clean for the report.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter() *Prompter {
	return &Prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stderr,
	}
}

// StdinIsTerminal reports whether prompting is possible at all.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ConfirmYN asks a yes/no question and loops until an explicit answer;
// an empty line re-prompts.
func (p *Prompter) ConfirmYN(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s [Y/n]: ", question)
		line, err := p.in.ReadString('\n')
		if err != nil {
			return false, fmt.Errorf("read answer: %w", err)
		}

		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "Y", "YE", "YES":
			return true, nil
		case "N", "NO":
			return false, nil
		}
	}
}

// InputPath asks for a path and loops until valid accepts the answer.
func (p *Prompter) InputPath(prompt string, valid func(string) bool) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s ", prompt)
		line, err := p.in.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read path: %w", err)
		}

		path := strings.TrimSpace(line)
		if path != "" && valid(path) {
			return path, nil
		}
		fmt.Fprintln(p.out, "Path is not valid")
	}
}
