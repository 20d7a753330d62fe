package main

import (
	"github.com/andreyvit/inbf/cmd/inbf/cmd"
)

func main() {
	cmd.Execute()
}
