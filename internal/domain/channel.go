package domain

import "strings"

type Channel struct {
	// Login est le nom de compte Twitch, toujours en minuscules.
	Login string

	// ShowName est le nom d'affichage utilisé pour le dossier "série".
	// Vide => Login.
	ShowName string

	// StatePath est le fichier d'état résolu pour cette chaîne.
	StatePath string
}

func (c Channel) Show() string {
	if strings.TrimSpace(c.ShowName) != "" {
		return c.ShowName
	}
	return c.Login
}

// ParseChannels splits a comma-separated channel list, trimming and
// lowercasing each login. Empty entries are dropped.
func ParseChannels(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseShowNames splits the positional show-name list. Entries are trimmed
// but empties are kept so positions stay aligned with the channel list.
func ParseShowNames(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// ShowNameFor returns the show name aligned with the channel at index, or the
// channel login when the list is short or the entry blank.
func ShowNameFor(login string, index int, showNames []string) string {
	if index < len(showNames) {
		if s := strings.TrimSpace(showNames[index]); s != "" {
			return s
		}
	}
	return login
}
