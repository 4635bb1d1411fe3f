package attach

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// errnoCategory is the category flag that marks a termination message as
// errno-annotated.
const errnoCategory = "e"

// Reporter is the sole user-visible termination channel. It is single-shot:
// only the first call to Exit ever produces output or terminates the
// process, so a termination path can never be raced by a second one trying
// to report a different outcome.
type Reporter struct {
	once sync.Once
	out  io.Writer
	exit func(code int)
}

// NewReporter returns a Reporter writing to out and terminating the process
// via os.Exit.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, exit: os.Exit}
}

// Exit formats and emits the single termination line, then terminates the
// process. category is "e" for errno-annotated messages, "" for plain ones;
// code is the errno value to annotate with when category is "e". Exit never
// returns on its first call; subsequent calls are no-ops so a signal
// arriving while another exit path is already unwinding can't produce a
// second line.
func (r *Reporter) Exit(category, message string, code int) {
	r.once.Do(func() {
		line := message
		if category == errnoCategory {
			line = fmt.Sprintf("%s (errno=%d)", message, code)
		}
		fmt.Fprintln(r.out, line)
		r.exit(1)
	})
}
