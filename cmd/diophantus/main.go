package main

import "github.com/diophantus-project/diophantus/cmd/diophantus/cmd"

func main() {
	cmd.Execute()
}
