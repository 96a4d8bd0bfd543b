// Package main is the entry point for the clinical notes assistant.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/cmd/clinical-notes/app"
)

func main() {
	app.NewApp().Run()
}
