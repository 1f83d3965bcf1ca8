// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezrec/dbg86/emulator"
	"github.com/ezrec/dbg86/monitor"
)

// scanReader adapts a bufio.Scanner to monitor.LineReader.
type scanReader struct {
	*bufio.Scanner
}

func (sr scanReader) ReadLine() (line string, err error) {
	if !sr.Scan() {
		err = sr.Err()
		if err == nil {
			err = io.EOF
		}
		return
	}

	line = sr.Text()
	return
}

// interact runs the monitor loop on stdin, with line editing when stdin
// is a terminal.
func interact(mon *monitor.Monitor, logger *logrus.Logger) (err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return mon.Loop(scanReader{bufio.NewScanner(os.Stdin)})
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	terminal := term.NewTerminal(screen, mon.Prompt())

	// The terminal translates newlines while in raw mode.
	logger.SetOutput(terminal)
	mon.Out = terminal
	defer logger.SetOutput(os.Stderr)

	return mon.Loop(terminal)
}

func main() {
	var load string
	var offset string
	var script string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "dbg86",
		Short: "16-bit x86 execution monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			logger := logrus.StandardLogger()
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}

			emu := emulator.NewEmulator()
			emu.Verbose = verbose

			mon := monitor.NewMonitor(emu)

			if len(load) != 0 {
				var base uint16
				base, err = monitor.ParseAddress(offset, nil)
				if err != nil {
					return
				}
				var data []byte
				data, err = os.ReadFile(load)
				if err != nil {
					return
				}
				emu.LoadImage(data, base)
			}

			if len(script) != 0 {
				return mon.ExecScript(script)
			}

			return interact(mon, logger)
		},
	}
	rootCmd.Flags().StringVar(&load, "load", "", "Image file to load")
	rootCmd.Flags().StringVar(&offset, "offset", "0x100", "Load offset of the image")
	rootCmd.Flags().StringVarP(&script, "exec", "e", "", "Run ';' separated commands and exit")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Trace each instruction")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
