package main

import "github.com/KaramelBytes/rxtrend/cmd"

func main() {
	cmd.Execute()
}
