package web

import "github.com/bcspragu/WordleSuggest/session"

// ActionCandidates is the action of an Update pushed when a session's
// candidates change.
const ActionCandidates = "CANDIDATES"

// Candidates is the state of a session as seen by API callers.
type Candidates struct {
	Count   int      `json:"count"`
	Words   []string `json:"words"`
	History []string `json:"history"`
}

// Update is a message pushed over a session's websocket.
type Update struct {
	Action string `json:"action"`
	*Candidates
}

func toCandidates(s *session.Session) *Candidates {
	return &Candidates{
		Count:   s.Count(),
		Words:   s.Candidates(),
		History: s.History(),
	}
}
