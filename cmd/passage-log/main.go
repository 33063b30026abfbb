package main

import "github.com/ngmaloney/passage-log/internal/cli"

func main() {
	cli.Execute()
}
