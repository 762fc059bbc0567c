package main

import "github.com/KaramelBytes/spreaddash-cli/cmd"

func main() {
	cmd.Execute()
}
