package main

import "github.com/adewaleolaore/youtube-arsenal/internal/cli"

func main() {
	cli.Main()
}
