package main

import "github.com/frahmantamala/team-directory/cmd"

func main() {
	cmd.Execute()
}
