package main

import (
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/anchorswipe/internal/config"
	"github.com/ytget/anchorswipe/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.anchorswipe"
	AppName = "Anchor Swipe"

	// ProfileEnv names a YAML tuning profile applied at startup
	ProfileEnv = "ANCHORSWIPE_PROFILE"

	WindowWidth  = 420
	WindowHeight = 760
)

func main() {
	fmt.Printf("%s v%s starting...\n", AppName, version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewDrawerTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp)
	if path := os.Getenv(ProfileEnv); path != "" {
		profile, err := config.LoadProfileFile(path)
		if err != nil {
			slog.Error("failed to load profile", "path", path, "error", err)
		} else {
			settings.ApplyProfile(profile)
		}
	}

	if _, err := ui.NewRootUI(myWindow, settings); err != nil {
		fmt.Printf("failed to build UI: %v\n", err)
		os.Exit(1)
	}

	myWindow.ShowAndRun()
}
