// cmd/gather/main.go
package main

import (
	"github.com/schulverzeichnis/gather/internal/cli"
)

func main() {
	// Execute CLI (app initialization happens inside cli.Execute;
	// interruption is handled per-command so partial runs still save)
	cli.Execute()
}
