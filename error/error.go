package error

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SpecError is a configuration error found while reading a description or building a tokenizer or a grammar from
// it. Row is 1-based; 0 means the position is unknown.
type SpecError struct {
	Cause      error
	Detail     string
	FilePath   string
	SourceName string
	Row        int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	switch {
	case e.SourceName != "" && e.Row > 0:
		fmt.Fprintf(&b, "%v:%v: ", e.SourceName, e.Row)
	case e.SourceName != "":
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	case e.Row > 0:
		fmt.Fprintf(&b, "line %v: ", e.Row)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}
	if line, ok := sourceLine(e.FilePath, e.Row); ok {
		fmt.Fprintf(&b, "\n    %v", line)
	}
	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

// SpecErrors is a list of configuration errors. Builders collect every error they can find before giving up.
type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e SpecErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// WithSource returns copies of the errors annotated with the path of the description they came from.
func (e SpecErrors) WithSource(filePath string) SpecErrors {
	errs := make(SpecErrors, len(e))
	for i, err := range e {
		c := *err
		c.FilePath = filePath
		if c.SourceName == "" {
			c.SourceName = filePath
		}
		errs[i] = &c
	}
	return errs
}

func sourceLine(filePath string, row int) (string, bool) {
	if filePath == "" || row <= 0 {
		return "", false
	}
	f, err := os.Open(filePath)
	if err != nil {
		return "", false
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for n := 1; s.Scan(); n++ {
		if n == row {
			return s.Text(), true
		}
	}
	return "", false
}
