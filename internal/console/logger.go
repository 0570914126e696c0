// SPDX-License-Identifier: MPL-2.0

package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// TimeFormat is the clock format used on every progress line.
const TimeFormat = "15:04:05"

// NewLogger returns the daemon logger writing to w (stderr when nil).
// Verbose lowers the level to debug so compiler command lines and sidecar
// loads are shown.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Level:           level,
	})
}

// Banner writes the startup lines: name and version, the source directory
// and port being served, and a separator.
func Banner(w io.Writer, name, version, src string, port int) {
	fmt.Fprintln(w, Green(name+" "+version))
	fmt.Fprintf(w, "Serving from '%s' on port %d\n", src, port)
	fmt.Fprintln(w, Grey(Separator))
}

// Farewell writes the message printed when the daemon is interrupted.
func Farewell(w io.Writer) {
	fmt.Fprintln(w, "\ntake care out there \U0001F44B")
}
