package main

import "github.com/killallgit/playlist-api/cmd"

func main() {
	cmd.Execute()
}
