package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/thisisjab/arrowjq/engine"
)

const maxLineSize = 1 << 20

// Parse reads programs from r, one per line. Blank lines and lines starting
// with "#" or "//" are skipped; line numbers still count them.
func Parse(name string, r io.Reader) ([]engine.Job, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var jobs []engine.Job
	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if skipLine(text) {
			continue
		}

		jobs = append(jobs, engine.NewJob(name, line, text))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read line %d: %w", line+1, err)
	}

	return jobs, nil
}

func skipLine(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//")
}

// ReaderSource serves the programs of an already open stream, such as
// standard input. It can only be read once.
type ReaderSource struct {
	name string
	r    io.Reader
}

func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, r: r}
}

func (s *ReaderSource) Name() string {
	return s.name
}

func (s *ReaderSource) Read() ([]engine.Job, error) {
	return Parse(s.name, s.r)
}
