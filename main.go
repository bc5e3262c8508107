package main

import "github.com/naka-gawa/github-contrib-badges/cmd"

func main() {
	cmd.Execute()
}
