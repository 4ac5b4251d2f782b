package main

import (
	"os"

	"github.com/antounmoubarak/fsdr-precheck/cmd/fsdr-precheck/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
