package handlers

import "strings"

var usages = map[string][]string{
	CmdList:   {Prefix + " list [<page>]"},
	CmdSearch: {Prefix + " search <keyword> [<page>]", Prefix + " <keyword> [<page>]"},
	CmdAdd: {
		Prefix + " add <name> <x> <y> <z> <dim> [<desc>]",
		Prefix + " add <name> here [<desc>]",
	},
	CmdDel: {Prefix + " del <name>"},
}

// UsageError is a malformed command. It renders as the reason followed by
// the accepted forms of the command.
type UsageError struct {
	Reason string
	Usage  string
}

func (e *UsageError) Error() string {
	var b strings.Builder
	if e.Reason != "" {
		b.WriteString(e.Reason)
		b.WriteString("\n")
	}
	b.WriteString("Usage: ")
	b.WriteString(e.Usage)
	return b.String()
}

func usageFor(cmd string) *UsageError {
	return &UsageError{Usage: strings.Join(usages[cmd], " | ")}
}

func usageWithReason(cmd, reason string) *UsageError {
	e := usageFor(cmd)
	e.Reason = reason
	return e
}

// repliedError is a failure the handler already reported to the source.
type repliedError struct {
	err error
}

func (e *repliedError) Error() string { return e.err.Error() }

func (e *repliedError) Unwrap() error { return e.err }
