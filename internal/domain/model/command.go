package model

import "strings"

// Command identifies one bot behavior. The set is closed and fixed at build time.
type Command string

const (
	CmdStart     Command = "start"
	CmdHelp      Command = "help"
	CmdLinks     Command = "links"
	CmdShop      Command = "shop"
	CmdPortfolio Command = "portfolio"
	CmdLanguage  Command = "language"
	CmdStatus    Command = "status"
	CmdWisdom    Command = "wisdom"
	CmdLangEN    Command = "lang_en"
	CmdUnknown   Command = "unknown"
)

// AllCommands lists every enumerated command, fallback included.
func AllCommands() []Command {
	return []Command{
		CmdStart, CmdHelp, CmdLinks, CmdShop, CmdPortfolio,
		CmdLanguage, CmdStatus, CmdWisdom, CmdLangEN, CmdUnknown,
	}
}

// ParseCommand maps a raw token onto the enumeration.
// Unrecognized tokens, including "unknown" itself, yield CmdUnknown and false.
func ParseCommand(token string) (Command, bool) {
	c := Command(NormalizeToken(token))
	for _, known := range AllCommands() {
		if known == CmdUnknown {
			continue
		}
		if c == known {
			return c, true
		}
	}
	return CmdUnknown, false
}

// NormalizeToken strips a leading slash and an @botname suffix, then lowercases.
//
//	"/Start@XeyronoxBot" -> "start"
func NormalizeToken(token string) string {
	t := strings.TrimSpace(token)
	t = strings.TrimPrefix(t, "/")
	if i := strings.IndexByte(t, '@'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(t)
}

func (c Command) String() string { return string(c) }
