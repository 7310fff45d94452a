package main

import "github.com/charlev/mep/cmd/mep/cmd"

func main() {
	cmd.Execute()
}
