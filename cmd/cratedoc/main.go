package main

import "github.com/mvp-joe/cratedoc/internal/cli"

func main() {
	cli.Execute()
}
