package config

import (
	"fmt"
	"io"
	"os"
)

// Exitf writes a formatted message to w and exits with code 1.
func Exitf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	os.Exit(1)
}
