package main

import "github.com/MyCarrier-DevOps/go-gitimport/cmd"

func main() {
	cmd.Execute()
}
