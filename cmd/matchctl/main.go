package main

import (
	"github.com/mcoot/matchengine-go/internal/cli"
)

func main() {
	cli.Execute()
}
