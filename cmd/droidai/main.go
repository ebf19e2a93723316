package main

import (
	"context"
	"fmt"
	"os"

	"github.com/doeshing/droidai/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()

	opts := cli.Options{Verbose: debugEnabled()}
	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "droidai: %v\n", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "droidai: %v\n", err)
		os.Exit(1)
	}
}

func debugEnabled() bool {
	switch os.Getenv("DROIDAI_DEBUG") {
	case "1", "true", "yes":
		return true
	}
	return false
}
