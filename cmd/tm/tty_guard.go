package main

import (
	"os"
	"strings"
)

// init runs before Bubble Tea acquires the terminal.
//
// Lipgloss/termenv background detection can write OSC/DSR queries to stdout.
// For invocations that only print text (--help, --version) or run under
// scripted tests, set CI=1 so termenv skips the probing.
func init() {
	if os.Getenv("CI") != "" {
		return
	}

	if !shouldSuppressTTYQueries(os.Args, os.Getenv("TM_TEST_MODE") != "") {
		return
	}

	_ = os.Setenv("CI", "1")
}

func shouldSuppressTTYQueries(args []string, envTest bool) bool {
	if envTest {
		return true
	}

	for _, arg := range args {
		switch strings.TrimLeft(arg, "-") {
		case "version", "help", "h":
			if strings.HasPrefix(arg, "-") {
				return true
			}
		}
	}

	return false
}
