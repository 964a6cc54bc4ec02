package main

import "github.com/issuehound/issuehound/cmd/issuehound"

func main() { issuehound.Execute() }
