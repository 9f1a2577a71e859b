// Package format pretty-prints generated sources when a formatter is
// available. Formatting is cosmetic: it can never fail a generation run.
package format

import (
	"bytes"
	"os/exec"
	"strings"
)

// Format runs the code through prettier when one is on PATH, using path to
// select the parser. On any error the input is returned unchanged.
func Format(path, code string) string {
	prettier, err := exec.LookPath("prettier")
	if err != nil {
		return code
	}

	cmd := exec.Command(prettier, "--stdin-filepath", path)
	cmd.Stdin = strings.NewReader(code)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return code
	}
	return out.String()
}
