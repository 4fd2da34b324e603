package main

import "github.com/sugimori/git-analyzer/cmd"

func main() {
	cmd.Execute()
}
