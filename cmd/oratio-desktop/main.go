package main

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/term"

	shellconfig "github.com/oratioviva/desktop/internal/config"
	"github.com/oratioviva/desktop/internal/sidecar"
)

func main() {
	cfgPath := os.Getenv("ORATIO_CONFIG")
	if cfgPath == "" {
		cfgPath = shellconfig.DefaultConfigPath()
	}
	cfg, cfgErr := shellconfig.Load(cfgPath)
	logger := newLogger(cfg.LogJSON(), cfg.LogLevel())
	if cfgErr != nil {
		logger.Warn("load config", "path", cfgPath, "err", cfgErr)
	}

	a := app.NewWithID("com.oratioviva.desktop")
	w := a.NewWindow(cfg.WindowTitle())
	width, height := cfg.WindowSize()
	w.Resize(fyne.NewSize(width, height))

	info := sidecar.ShellInfo{
		ResourceDir: resolveResourceDir(cfg),
		AppDataDir:  a.Storage().RootURI().Path(),
	}

	statusData := binding.NewString()
	_ = statusData.Set("Starting backend")
	status := widget.NewLabelWithData(statusData)
	status.Wrapping = fyne.TextWrapWord

	sup := sidecar.New(logger)
	launch, startErr := sup.Start(info)
	if startErr != nil {
		logger.Error("backend start", "err", startErr)
		_ = statusData.Set("Backend unavailable: " + startErr.Error())
	} else {
		_ = statusData.Set("Backend running at " + launch.URL())
	}

	openBtn := widget.NewButton("Open in browser", func() {
		u, err := url.Parse(launch.URL() + "/app/")
		if err != nil {
			return
		}
		if err := a.OpenURL(u); err != nil {
			logger.Warn("open browser", "err", err)
		}
	})
	if startErr != nil {
		openBtn.Disable()
	}

	w.SetContent(container.NewVBox(
		widget.NewLabel(cfg.WindowTitle()),
		status,
		openBtn,
	))

	w.SetCloseIntercept(func() {
		sup.Stop()
		w.Close()
	})
	defer sup.Stop()
	w.ShowAndRun()
}

// resolveResourceDir locates the bundled resources directory of an installed
// build: the config override wins, then a resources directory next to the
// executable. Empty means only checkout-relative candidates apply.
func resolveResourceDir(cfg *shellconfig.Config) string {
	if dir := cfg.ResourcesDir(); dir != "" {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	dir := filepath.Join(filepath.Dir(exe), "resources")
	if _, err := os.Stat(dir); err != nil {
		return ""
	}
	return dir
}

func newLogger(json bool, level slog.Level) *slog.Logger {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		json = true
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	if json {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}
	return slog.New(handler)
}
