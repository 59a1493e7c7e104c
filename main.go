package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/sitescout/internal/config"
	"github.com/LFroesch/sitescout/internal/connection"
	"github.com/LFroesch/sitescout/internal/fileops"
	"github.com/LFroesch/sitescout/internal/logger"
	"github.com/LFroesch/sitescout/internal/remote"
)

func main() {
	connID := flag.Int("connection", 0, "id of the saved connection to open (default: the last one used)")
	startPath := flag.String("path", "", "directory to open instead of the connection's remote path")
	debug := flag.Bool("debug", false, "write debug messages to the log")
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		logger.Disable()
	}
	defer logger.Close()
	if *debug {
		logger.SetMinLevel(logger.LevelDebug)
	}

	cfg := config.Load()

	storePath, err := connection.DefaultPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	store, err := connection.Open(storePath)
	if err != nil {
		logger.Error("cannot open connection store: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	knownHosts, err := remote.DefaultKnownHostsPath()
	if err != nil {
		logger.Warn("host keys will not be remembered: %v", err)
	}
	pool := remote.NewPool(knownHosts, logger.Log)
	defer pool.Close()
	pool.OnConnect(func(id int) {
		if err := store.Touch(id); err != nil {
			logger.Warn("cannot record connection time: %v", err)
		}
	})

	m, err := newModel(cfg, store, pool, fileops.Local{UseTrash: cfg.UseTrash})
	if err != nil {
		logger.Warn("panel layout: %v", err)
	}
	m.startConn = *connID
	m.startPath = *startPath

	logger.Info("sitescout starting")
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
