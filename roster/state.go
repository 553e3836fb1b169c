// Package roster holds the application state managed by the store: the
// player records, the team lineup, the reserve bench, and the player
// currently selected for editing.
package roster

import (
	"slices"
	"sort"
	"time"
)

// Identity names a player and carries the per-session role flags.
type Identity struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	IsSquire  bool   `json:"isSquire"`
	IsCaptain bool   `json:"isCaptain"`
}

// ClassType is a player's standing in one class.
type ClassType struct {
	Rank      int  `json:"rank"`
	Priority  int  `json:"priority"`
	Primary   bool `json:"primary"`
	Secondary bool `json:"secondary"`
	IsActive  bool `json:"isActive"`
}

// Classes groups the three playable classes.
type Classes struct {
	DPS     ClassType `json:"dps"`
	Tank    ClassType `json:"tank"`
	Support ClassType `json:"support"`
}

type Stats struct {
	Classes Classes `json:"classes"`
}

type Player struct {
	Identity  Identity  `json:"identity"`
	Stats     Stats     `json:"stats"`
	CreatedAt time.Time `json:"createdAt"`
}

// Players is keyed by Identity.UUID.
type Players map[string]Player

// Sorted returns the players ordered by creation time, then name.
func (p Players) Sorted() []Player {
	out := make([]Player, 0, len(p))
	for _, player := range p {
		out = append(out, player)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Identity.Name < out[j].Identity.Name
	})
	return out
}

// Captains returns the players flagged as captains, in Sorted order.
func (p Players) Captains() []Player {
	return p.filter(func(pl Player) bool { return pl.Identity.IsCaptain })
}

// Squires returns the players flagged as squires, in Sorted order.
func (p Players) Squires() []Player {
	return p.filter(func(pl Player) bool { return pl.Identity.IsSquire })
}

func (p Players) filter(keep func(Player) bool) []Player {
	var out []Player
	for _, pl := range p.Sorted() {
		if keep(pl) {
			out = append(out, pl)
		}
	}
	return out
}

// Member is a player placed on a team in a specific role.
type Member struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Role string `json:"role"`
	Rank int    `json:"rank"`
}

type Team struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// AverageRank returns the floored mean member rank, or 0 for an empty team.
func (t Team) AverageRank() int {
	if len(t.Members) == 0 {
		return 0
	}
	sum := 0
	for _, m := range t.Members {
		sum += m.Rank
	}
	return sum / len(t.Members)
}

// State is the full application state. Only Players is persisted.
type State struct {
	Players    Players  `json:"players"`
	Teams      []Team   `json:"teams,omitempty"`
	Reserve    []string `json:"reserve,omitempty"`
	EditPlayer string   `json:"editPlayer,omitempty"`
}

// NewState returns an empty State.
func NewState() State {
	return State{Players: make(Players)}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Players:    make(Players, len(s.Players)),
		Reserve:    slices.Clone(s.Reserve),
		EditPlayer: s.EditPlayer,
	}
	for id, p := range s.Players {
		out.Players[id] = p
	}
	if s.Teams != nil {
		out.Teams = make([]Team, len(s.Teams))
		for i, t := range s.Teams {
			out.Teams[i] = Team{Name: t.Name, Members: slices.Clone(t.Members)}
		}
	}
	return out
}
