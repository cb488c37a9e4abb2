package main

import "github.com/chrisdamba/sandwichsim/cmd"

func main() {
	cmd.Execute()
}
