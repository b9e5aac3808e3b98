package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// AutoReviewer renders every page and answers with Approve.
type AutoReviewer struct {
	Approve bool
}

func (autoReviewer AutoReviewer) Review(ctx context.Context, items Items) (bool, error) {

	pages, err := Walk(items)
	if err != nil {
		return false, err
	}

	for _, page := range pages {
		slog.Debug("Review", "Item", page.String())
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	return autoReviewer.Approve, nil

}

// ScriptedReviewer answers with Answers in order and records what it was
// shown. Once the answers run out it rejects.
type ScriptedReviewer struct {
	mu      sync.Mutex
	Answers []bool
	Seen    [][][2]string
}

func (scriptedReviewer *ScriptedReviewer) Review(ctx context.Context, items Items) (bool, error) {

	messages, err := Messages(items)
	if err != nil {
		return false, err
	}

	scriptedReviewer.mu.Lock()
	defer scriptedReviewer.mu.Unlock()

	scriptedReviewer.Seen = append(scriptedReviewer.Seen, messages)

	if len(scriptedReviewer.Answers) == 0 {
		return false, nil
	}

	answer := scriptedReviewer.Answers[0]
	scriptedReviewer.Answers = scriptedReviewer.Answers[1:]

	return answer, nil

}

// Last returns the items of the most recent review.
func (scriptedReviewer *ScriptedReviewer) Last() [][2]string {

	scriptedReviewer.mu.Lock()
	defer scriptedReviewer.mu.Unlock()

	if len(scriptedReviewer.Seen) == 0 {
		return nil
	}

	return scriptedReviewer.Seen[len(scriptedReviewer.Seen)-1]

}

// TerminalReviewer prints each page and asks for a y/n answer. When In is
// a terminal it is switched to raw mode and a single key is read.
type TerminalReviewer struct {
	mu  sync.Mutex
	In  *os.File
	Out io.Writer
}

func NewTerminalReviewer() *TerminalReviewer {

	return &TerminalReviewer{In: os.Stdin, Out: os.Stdout}

}

func (terminalReviewer *TerminalReviewer) Review(ctx context.Context, items Items) (bool, error) {

	terminalReviewer.mu.Lock()
	defer terminalReviewer.mu.Unlock()

	pages, err := Walk(items)
	if err != nil {
		return false, err
	}

	title := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Fprintln(terminalReviewer.Out)

	for _, page := range pages {

		name := page.Title
		if page.Pages > 1 {
			name = fmt.Sprintf("%s (%d/%d)", page.Title, page.Page+1, page.Pages)
		}

		fmt.Fprintf(terminalReviewer.Out, "%s\n  %s\n", title(name), page.Message)

	}

	fmt.Fprint(terminalReviewer.Out, color.YellowString("Approve? [y/N] "))

	answer := make(chan string, 1)
	failed := make(chan error, 1)

	go func() {

		line, err := terminalReviewer.readAnswer()
		if err != nil {
			failed <- err
			return
		}

		answer <- line

	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-failed:
		return false, err
	case line := <-answer:
		fmt.Fprintln(terminalReviewer.Out)
		line = strings.ToLower(strings.TrimSpace(line))
		return line == "y" || line == "yes", nil
	}

}

func (terminalReviewer *TerminalReviewer) readAnswer() (string, error) {

	fd := int(terminalReviewer.In.Fd())

	if !term.IsTerminal(fd) {

		line, err := bufio.NewReader(terminalReviewer.In).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}

		return line, nil

	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return "", err
	}
	defer term.Restore(fd, state)

	key := make([]byte, 1)
	if _, err := terminalReviewer.In.Read(key); err != nil {
		return "", err
	}

	return string(key), nil

}
