// Package logger provides tagged, colored console output for the CLI tools.
package logger

import (
	"fmt"
	"time"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	gray   = "\033[90m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

func stamp() string {
	return time.Now().Format("15:04:05")
}

func line(color, symbol, tag, msg string) {
	fmt.Printf("%s%s%s %s%s [%s]%s %s\n", gray, stamp(), reset, color, symbol, tag, reset, msg)
}

// Info logs a neutral progress message.
func Info(tag, msg string) { line(cyan, "•", tag, msg) }

// Success logs a completed step.
func Success(tag, msg string) { line(green, "✓", tag, msg) }

// Warn logs a recoverable problem.
func Warn(tag, msg string) { line(yellow, "!", tag, msg) }

// Error logs a failure.
func Error(tag, msg string) { line(red, "✗", tag, msg) }

// Banner prints the startup header.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Printf("%s%s osrs-flipper %s%s\n", bold, cyan, version, reset)
	fmt.Printf("%s grand exchange flip finder%s\n\n", gray, reset)
}

// Section prints a titled divider before a block of output.
func Section(title string) {
	fmt.Printf("\n%s%s=== %s ===%s\n\n", bold, cyan, title, reset)
}

// Stats prints an indented key/value pair, for summary blocks.
func Stats(key string, value interface{}) {
	fmt.Printf("    %s%-20s%s %v\n", gray, key+":", reset, value)
}
