package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/stapply-ai/agent/internal/version"
)

var (
	cyan = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	gray = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

const stapplyArt = `
 ____  _                    _
/ ___|| |_ __ _ _ __  _ __ | |_   _
\___ \| __/ _' | '_ \| '_ \| | | | |
 ___) | || (_| | |_) | |_) | | |_| |
|____/ \__\__,_| .__/| .__/|_|\__, |
               |_|   |_|      |___/
`

func showHeader() {
	fmt.Print(cyan.Bold(true).Render(stapplyArt) + "\n")
	fmt.Println(gray.Render(version.DetailedWithApp()))
}

func logBootDiagnostics() {
	attrs := []any{
		"pid", os.Getpid(),
		"goos", runtime.GOOS,
		"goarch", runtime.GOARCH,
	}
	if cores, err := cpu.Counts(true); err == nil {
		attrs = append(attrs, "cpus", cores)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		attrs = append(attrs, "memTotal", humanize.IBytes(vm.Total), "memAvailable", humanize.IBytes(vm.Available))
	}
	if info, err := host.Info(); err == nil {
		attrs = append(attrs, "platform", info.Platform, "kernel", info.KernelVersion)
	}
	slog.Info("system", attrs...)
}
