package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the build progress view. It implements pflag.Value, so a
// bad --ui value is rejected while flags are parsed.
type uiMode uint8

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

var uiModeNames = [...]string{"auto", "on", "off"}

func (m uiMode) String() string {
	if int(m) < len(uiModeNames) {
		return uiModeNames[m]
	}
	return "auto"
}

func (m *uiMode) Set(value string) error {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		*m = uiAuto
		return nil
	}
	for i, name := range uiModeNames {
		if value == name {
			*m = uiMode(i)
			return nil
		}
	}
	return fmt.Errorf("expected %s", strings.Join(uiModeNames[:], "|"))
}

func (m *uiMode) Type() string { return "mode" }

// showProgress decides whether build draws the progress view. The view owns
// the screen, so it needs pretty diagnostics. In auto mode it also needs a
// terminal and more than one unit to be worth drawing.
func (m uiMode) showProgress(units int, quiet bool, diagFormat string) bool {
	if m == uiOff || diagFormat != "pretty" {
		return false
	}
	if m == uiOn {
		return true
	}
	return !quiet && units > 1 && isTerminal(os.Stdout)
}
