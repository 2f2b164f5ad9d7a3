package models

import "strings"

// CommandType enumerates supported owner command categories.
type CommandType string

const (
	CommandStats   CommandType = "stats"
	CommandGoals   CommandType = "goals"
	CommandFees    CommandType = "fees"
	CommandSold    CommandType = "sold"
	CommandLanded  CommandType = "landed"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.TrimSpace(message))
	cmd := Command{Type: CommandUnknown, Raw: message}
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	switch CommandType(head) {
	case CommandStats, CommandGoals, CommandFees, CommandSold, CommandLanded:
		cmd.Type = CommandType(head)
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
