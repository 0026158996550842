package iocli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Stdio пишет в out; терминал определяется по файловому дескриптору out
type Stdio struct {
	out io.Writer
}

// NewStdio создает IO поверх os.Stdout
func NewStdio() IO {
	return &Stdio{out: os.Stdout}
}

// NewWriter создает IO поверх произвольного writer (не терминал, если это не *os.File)
func NewWriter(w io.Writer) IO {
	return &Stdio{out: w}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) IsTerminal() bool {
	f, ok := s.out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
