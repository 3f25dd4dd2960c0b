// Package main provides the entry point for the Tactics Board application.
package main

import (
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"tactics-board/internal/app"
	"tactics-board/internal/tracking"
	"tactics-board/pkg/api"
	"tactics-board/ui/mainwindow"
)

const (
	appTitle   = "Tactics Board"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	config := app.LoadConfig()

	match := tracking.NewDemoMatch(config.DemoSeconds)
	state := app.NewState(match)

	if config.APIEnabled {
		log.Printf("API listening on %s", config.APIAddr)
		go api.Run(state, config.APIAddr)
	}

	fyneApp := fyneapp.New()
	win := mainwindow.New(fyneApp, state, config)
	win.SetTitle(appTitle)

	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		if err := state.LoadProject(projectPath); err != nil {
			log.Printf("Failed to load project %s: %v", projectPath, err)
		}
	}

	win.ShowAndRun()
}
