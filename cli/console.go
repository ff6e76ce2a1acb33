// Copyright (c) 2023, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package cli

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/openthread/ot-emd/logger"
)

// CliHandler executes one console command line.
type CliHandler interface {
	HandleCommand(cmd string, output io.Writer) error
	GetPrompt() string
}

type CliOptions struct {
	EchoInput   bool
	HistoryFile string // readline history, none if empty
	Stdin       *os.File
	Stdout      *os.File
}

func DefaultCliOptions() *CliOptions {
	return &CliOptions{}
}

// Console reads command lines with readline and passes them to a CliHandler. A Console runs once.
type Console struct {
	opts    CliOptions
	started chan struct{}
	done    chan struct{}

	mu sync.Mutex
	rl *readline.Instance
}

func NewConsole(options *CliOptions) *Console {
	c := &Console{
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
	if options != nil {
		c.opts = *options
	}
	if c.opts.Stdin == nil {
		c.opts.Stdin = os.Stdin
	}
	if c.opts.Stdout == nil {
		c.opts.Stdout = os.Stdout
	}
	return c
}

// Started is closed once Run has set up the console, or failed to.
func (c *Console) Started() <-chan struct{} {
	return c.started
}

// OnStdout redraws the prompt after log output.
func (c *Console) OnStdout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rl != nil {
		c.rl.Refresh()
	}
}

// Stop ends a running console and waits for Run to return.
func (c *Console) Stop() {
	<-c.started
	// readline.Instance.Close can block while Readline waits (chzyer/readline#217), so interrupt
	// the pending read and close stdin instead. Run closes the instance itself.
	_, _ = c.opts.Stdin.WriteString("\003\n")
	_ = c.opts.Stdin.Close()
	<-c.done
	logger.Tracef("console stopped")
}

func (c *Console) Run(handler CliHandler) error {
	defer close(c.done)
	defer logger.Debugf("console exit")

	rl, restore, err := c.open(handler.GetPrompt())
	close(c.started)
	if err != nil {
		return err
	}
	defer restore()

	for {
		rl.SetPrompt(handler.GetPrompt())
		line, err := rl.Readline()
		if len(line) > 0 && line[0] == readline.CharInterrupt {
			return nil
		}
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue // Ctrl-C while editing drops the line
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if c.opts.EchoInput {
			if _, err := c.opts.Stdout.WriteString(line + "\n"); err != nil {
				return err
			}
		}
		cmd := strings.TrimSpace(line)
		if len(cmd) == 0 {
			continue
		}
		err = handler.HandleCommand(cmd, rl.Stdout())
		_ = c.opts.Stdout.Sync()
		if err != nil {
			return err
		}
	}
}

// open creates the readline instance. The returned func closes it and restores the terminal modes.
func (c *Console) open(prompt string) (*readline.Instance, func(), error) {
	var states []func()
	restore := func() {
		for i := len(states) - 1; i >= 0; i-- {
			states[i]()
		}
	}
	for _, f := range []*os.File{c.opts.Stdin, c.opts.Stdout} {
		fd := int(f.Fd())
		if !readline.IsTerminal(fd) {
			continue
		}
		state, err := readline.GetState(fd)
		if err != nil {
			restore()
			return nil, nil, err
		}
		states = append(states, func() { _ = readline.Restore(fd, state) })
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       c.opts.HistoryFile,
		HistorySearchFold: true,
		AutoComplete:      newCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		Stdin:             c.opts.Stdin,
		Stdout:            c.opts.Stdout,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			return r, r != readline.CharCtrlZ
		},
	})
	if err != nil {
		restore()
		return nil, nil, err
	}

	c.mu.Lock()
	c.rl = rl
	c.mu.Unlock()
	return rl, func() {
		c.mu.Lock()
		c.rl = nil
		c.mu.Unlock()
		_ = rl.Close()
		restore()
	}, nil
}

// newCompleter completes command keywords, and help topics after "help".
func newCompleter() *readline.PrefixCompleter {
	names := commandNames()
	topics := make([]readline.PrefixCompleterInterface, len(names))
	items := make([]readline.PrefixCompleterInterface, 0, len(names))
	for i, name := range names {
		topics[i] = readline.PcItem(name)
	}
	for _, name := range names {
		if name == "help" {
			items = append(items, readline.PcItem(name, topics...))
		} else {
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}
