// Command folio analyzes, normalizes, checks, renders, searches and serves Markdown posts.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCmd().Execute()
	if err == nil {
		return
	}

	var usageErr *usageError
	var exitErr *exitCodeError
	switch {
	case errors.As(err, &usageErr):
		fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, usageErr.error)
		os.Exit(2)
	case errors.As(err, &exitErr):
		if exitErr.error != nil {
			fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, exitErr.error)
		}
		os.Exit(exitErr.exitCode)
	default:
		fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err)
		os.Exit(1)
	}
}
