package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// inputLine is one ReadString result.
type inputLine struct {
	text string
	err  error
}

// Prompter reads one answer per line. Lines are read on a separate
// goroutine so a waiting Ask returns as soon as ctx is canceled.
type Prompter struct {
	r   *bufio.Reader
	out *Presenter

	once  sync.Once
	lines chan inputLine

	// ended holds the read error that stopped the reader goroutine.
	ended error
}

// NewPrompter reads answers from r and prints labels through out.
func NewPrompter(r io.Reader, out *Presenter) *Prompter {
	return &Prompter{r: bufio.NewReader(r), out: out}
}

// Ask prints label and returns the next line without its line ending.
// io.EOF is returned only when the input ended before any text;
// ctx.Err() is returned when ctx is done first.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	p.out.Prompt(label)

	if p.ended != nil {
		return "", p.ended
	}
	p.once.Do(p.startReader)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case in := <-p.lines:
		if in.err != nil {
			p.ended = in.err
			if !(errors.Is(in.err, io.EOF) && in.text != "") {
				return "", in.err
			}
		}
		return strings.TrimRight(in.text, "\r\n"), nil
	}
}

// AskTrimmed is Ask with surrounding whitespace removed.
func (p *Prompter) AskTrimmed(ctx context.Context, label string) (string, error) {
	answer, err := p.Ask(ctx, label)
	return strings.TrimSpace(answer), err
}

// startReader feeds lines until the first read error, which it also sends.
func (p *Prompter) startReader() {
	p.lines = make(chan inputLine)
	go func() {
		for {
			text, err := p.r.ReadString('\n')
			p.lines <- inputLine{text: text, err: err}
			if err != nil {
				return
			}
		}
	}()
}
