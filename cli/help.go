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
	_ "embed"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"

	"github.com/openthread/ot-emd/logger"
)

// cliReference holds one "### <command>" section per command.
//
//go:embed README.md
var cliReference string

var cmdKeywordPattern = regexp.MustCompile(`^"([a-z]+)"`)

// commandNames returns the sorted keywords of all commands in the grammar.
func commandNames() []string {
	t := reflect.TypeOf(Command{})
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f, ok := t.Field(i).Type.Elem().FieldByName("Cmd")
		if !ok {
			continue
		}
		if m := cmdKeywordPattern.FindStringSubmatch(string(f.Tag)); m != nil {
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// helpTopic is the reference text of a single command.
type helpTopic struct {
	summary  string
	text     string
	usage    []string
	examples []string
}

type Help struct {
	termWidth uint
	commands  []string
	topics    map[string]*helpTopic
}

func newHelp() *Help {
	h := &Help{
		termWidth: 80,
		commands:  commandNames(),
		topics:    parseReference(cliReference),
	}
	h.update()
	return h
}

func (help *Help) update() {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		logger.Debugf("terminal size: %v", err)
		return
	}
	help.termWidth = uint(width)
}

func (help *Help) summary(cmd string) string {
	if topic, ok := help.topics[cmd]; ok {
		return topic.summary
	}
	return ""
}

func (help *Help) outputGeneralHelp() string {
	help.update()
	var sb strings.Builder
	for _, cmd := range help.commands {
		_, _ = fmt.Fprintf(&sb, "%-10s %s\n", cmd, help.summary(cmd))
	}
	sb.WriteString(wordwrap.WrapString("\nFor details and examples of a command, use: 'help <command>'\n", help.termWidth))
	return sb.String()
}

func (help *Help) outputCommandHelp(cmd string) (string, error) {
	topic, ok := help.topics[cmd]
	if !ok {
		return "", fmt.Errorf("no help for '%s', try 'help' for the list of commands", cmd)
	}
	help.update()

	var sb strings.Builder
	sb.WriteString(cmd + "\n")
	for _, line := range strings.Split(wordwrap.WrapString(topic.text, help.termWidth-2), "\n") {
		sb.WriteString("  " + line + "\n")
	}
	writeBlock(&sb, "Usage:", topic.usage)
	writeBlock(&sb, "Example:", topic.examples)
	return sb.String(), nil
}

func writeBlock(sb *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	sb.WriteString("\n  " + title + "\n")
	for _, line := range lines {
		sb.WriteString("    " + line + "\n")
	}
}

// parseReference splits the command reference into topics. Description lines are joined into one
// paragraph, ```shell blocks give the usage and ```bash blocks the examples.
func parseReference(md string) map[string]*helpTopic {
	topics := make(map[string]*helpTopic)
	var topic *helpTopic
	var block *[]string
	var text []string

	flush := func() {
		if topic != nil {
			topic.text = strings.Join(text, " ")
			topic.summary = firstSentence(topic.text)
		}
		text = nil
	}

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case block != nil && trimmed == "```":
			block = nil
		case block != nil:
			*block = append(*block, strings.TrimRight(line, " "))
		case strings.HasPrefix(trimmed, "### "):
			flush()
			topic = &helpTopic{}
			topics[strings.TrimSpace(trimmed[4:])] = topic
		case strings.HasPrefix(trimmed, "#"):
			flush()
			topic = nil
		case topic == nil:
		case trimmed == "```shell":
			block = &topic.usage
		case trimmed == "```bash":
			block = &topic.examples
		case trimmed != "":
			text = append(text, strings.ReplaceAll(trimmed, "`", ""))
		}
	}
	flush()
	return topics
}

func firstSentence(s string) string {
	if idx := strings.Index(s, ". "); idx > 0 {
		return s[:idx+1]
	}
	return s
}
