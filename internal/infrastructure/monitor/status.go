package monitor

import "time"

type Status struct {
	Storage    string          `json:"storage"`
	Online     bool            `json:"online"`
	Components map[string]bool `json:"components"`
	LastCheck  time.Time       `json:"last_check"`
}

func (s Status) clone() Status {
	components := make(map[string]bool, len(s.Components))
	for name, ok := range s.Components {
		components[name] = ok
	}
	s.Components = components
	return s
}
