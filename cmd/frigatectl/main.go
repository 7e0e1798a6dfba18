package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	// A Ctrl-C already told the user everything; anything else gets printed.
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "frigatectl: %v\n", err)
	}
	os.Exit(1)
}
