package main

import "github.com/grailbio/runlist/cmd/bio-runlist/cmd"

func main() {
	cmd.Run()
}
