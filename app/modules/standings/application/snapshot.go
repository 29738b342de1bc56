package standingsservice

import (
	"time"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

// Snapshot is an immutable view of one successful load. Readers must not
// modify Entries.
type Snapshot struct {
	ID       string                  `json:"id"`
	LoadedAt time.Time               `json:"loaded_at"`
	Source   string                  `json:"source"`
	Entries  []standingsdomain.Entry `json:"entries"`
}

// Find returns the entry whose name equals name exactly.
func (s *Snapshot) Find(name string) (standingsdomain.Entry, bool) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return standingsdomain.Entry{}, false
}

// Names lists player names in standings order.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		names[i] = e.Name
	}
	return names
}

// Matched counts entries with a profile file.
func (s *Snapshot) Matched() int {
	n := 0
	for _, e := range s.Entries {
		if e.Profile.Matched() {
			n++
		}
	}
	return n
}
