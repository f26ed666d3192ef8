package main

import "github.com/veligo/dropbox-client/cmd"

func main() {
	cmd.Execute()
}
