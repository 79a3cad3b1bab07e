package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// tokens splits a stream into whitespace-separated words.
type tokens struct {
	sc *bufio.Scanner
}

func newTokens(r io.Reader) *tokens {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)
	return &tokens{sc: sc}
}

func (t *tokens) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	return t.sc.Text(), true
}

func (t *tokens) err() error {
	if err := t.sc.Err(); err != nil {
		return fmt.Errorf("read mesh data: %w", err)
	}
	return nil
}

func (t *tokens) word() (string, error) {
	w, ok := t.next()
	if !ok {
		if err := t.err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: unexpected end of data", ErrFormat)
	}
	return w, nil
}

func (t *tokens) expect(words ...string) error {
	for _, want := range words {
		got, err := t.word()
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("%w: expected %q, got %q", ErrFormat, want, got)
		}
	}
	return nil
}

func (t *tokens) int() (int, error) {
	w, err := t.word()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return n, nil
}

func (t *tokens) float() (float64, error) {
	w, err := t.word()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return f, nil
}
