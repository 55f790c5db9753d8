package main

import "github.com/resumate/resumate/internal/cli"

func main() {
	cli.Execute()
}
