package main

import (
	"github.com/photonwings/lottery-smart-contract/cmd/lottery/cmd"
)

func main() {
	cmd.Execute()
}
