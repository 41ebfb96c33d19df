package main

import "github.com/berachain/berastats/cmd/berastats"

func main() {
	berastats.Execute()
}
