package roster

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/roster/mutation"
)

// Ref identifies a single player in a mutation payload.
type Ref struct {
	UUID string `json:"uuid"`
}

// LegacyPlayer is the flat record format accepted by IMPORT_PLAYERS_OLD.
// Role is one of "dps", "tank", or "support".
type LegacyPlayer struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
	Role string `json:"role"`
}

type reducer func(s *State, m mutation.Mutation, now time.Time) error

var reducers = map[mutation.Type]reducer{
	mutation.AddTeams:             addTeams,
	mutation.AddPlayer:            addPlayer,
	mutation.AddReserve:           addReserve,
	mutation.AddPlayers:           addPlayers,
	mutation.ClearTeams:           clearTeams,
	mutation.EditPlayer:           editPlayer,
	mutation.UpdateStats:          updateStats,
	mutation.DeletePlayer:         deletePlayer,
	mutation.ClearSquires:         clearSquires,
	mutation.ImportPlayers:        importPlayers,
	mutation.DeletePlayers:        deletePlayers,
	mutation.AssignSquires:        assignSquires,
	mutation.ClearCaptains:        clearCaptains,
	mutation.AssignCaptains:       assignCaptains,
	mutation.ClearAllExtra:        clearAllExtra,
	mutation.ReservePlayers:       reservePlayers,
	mutation.ClearEditPlayer:      clearEditPlayer,
	mutation.ImportPlayersOld:     importPlayersOld,
	mutation.RemoveReservedPlayer: removeReservedPlayer,
}

// Handles reports whether a reducer is registered for t.
func Handles(t mutation.Type) bool {
	_, ok := reducers[t]
	return ok
}

// Apply runs the reducer for m against s in place. now stamps newly created
// players. On error s may be partially modified; callers apply to a clone.
func Apply(s *State, m mutation.Mutation, now time.Time) error {
	r, ok := reducers[m.Type]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoReducer, m.Type)
	}
	if s.Players == nil {
		s.Players = make(Players)
	}
	return r(s, m, now)
}

func decodeRef(m mutation.Mutation) (string, error) {
	var ref Ref
	if err := m.Decode(&ref); err != nil {
		return "", err
	}
	id := strings.TrimSpace(ref.UUID)
	if id == "" {
		return "", fmt.Errorf("%w: %s: uuid required", mutation.ErrInvalidPayload, m.Type)
	}
	return id, nil
}

func (s *State) require(id string) error {
	if _, ok := s.Players[id]; !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return nil
}

func (s *State) insert(p Player, now time.Time, overwrite bool) error {
	p.Identity.Name = strings.TrimSpace(p.Identity.Name)
	if p.Identity.Name == "" {
		return fmt.Errorf("%w: player name required", mutation.ErrInvalidPayload)
	}
	if p.Identity.UUID == "" {
		p.Identity.UUID = uuid.Must(uuid.NewV7()).String()
	}
	if _, exists := s.Players[p.Identity.UUID]; exists && !overwrite {
		return fmt.Errorf("%w: %s", ErrPlayerExists, p.Identity.UUID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now.UTC()
	}
	s.Players[p.Identity.UUID] = p
	return nil
}

func (s *State) forget(id string) {
	delete(s.Players, id)
	s.Reserve = slices.DeleteFunc(s.Reserve, func(r string) bool { return r == id })
	if s.EditPlayer == id {
		s.EditPlayer = ""
	}
}

func addPlayer(s *State, m mutation.Mutation, now time.Time) error {
	var p Player
	if err := m.Decode(&p); err != nil {
		return err
	}
	return s.insert(p, now, false)
}

func addPlayers(s *State, m mutation.Mutation, now time.Time) error {
	var players []Player
	if err := m.Decode(&players); err != nil {
		return err
	}
	for _, p := range players {
		if err := s.insert(p, now, false); err != nil {
			return err
		}
	}
	return nil
}

// importPlayers merges an exported player map, replacing records that share
// a UUID.
func importPlayers(s *State, m mutation.Mutation, now time.Time) error {
	var players Players
	if err := m.Decode(&players); err != nil {
		return err
	}
	for key, p := range players {
		if p.Identity.UUID == "" {
			p.Identity.UUID = key
		}
		if err := s.insert(p, now, true); err != nil {
			return err
		}
	}
	return nil
}

func importPlayersOld(s *State, m mutation.Mutation, now time.Time) error {
	var legacy []LegacyPlayer
	if err := m.Decode(&legacy); err != nil {
		return err
	}
	for _, l := range legacy {
		class := ClassType{Rank: l.Rank, Primary: true, IsActive: true}
		var p Player
		p.Identity.Name = l.Name
		switch strings.ToLower(strings.TrimSpace(l.Role)) {
		case "dps":
			p.Stats.Classes.DPS = class
		case "tank":
			p.Stats.Classes.Tank = class
		case "support":
			p.Stats.Classes.Support = class
		default:
			return fmt.Errorf("%w: unknown role %q for %q", mutation.ErrInvalidPayload, l.Role, l.Name)
		}
		if err := s.insert(p, now, false); err != nil {
			return err
		}
	}
	return nil
}

func editPlayer(s *State, m mutation.Mutation, _ time.Time) error {
	id, err := decodeRef(m)
	if err != nil {
		return err
	}
	if err := s.require(id); err != nil {
		return err
	}
	s.EditPlayer = id
	return nil
}

func clearEditPlayer(s *State, _ mutation.Mutation, _ time.Time) error {
	s.EditPlayer = ""
	return nil
}

// updateStats replaces the identity and stats of an existing player while
// keeping its creation time.
func updateStats(s *State, m mutation.Mutation, _ time.Time) error {
	var p Player
	if err := m.Decode(&p); err != nil {
		return err
	}
	if err := s.require(p.Identity.UUID); err != nil {
		return err
	}
	p.Identity.Name = strings.TrimSpace(p.Identity.Name)
	if p.Identity.Name == "" {
		return fmt.Errorf("%w: player name required", mutation.ErrInvalidPayload)
	}
	p.CreatedAt = s.Players[p.Identity.UUID].CreatedAt
	s.Players[p.Identity.UUID] = p
	return nil
}

func deletePlayer(s *State, m mutation.Mutation, _ time.Time) error {
	id, err := decodeRef(m)
	if err != nil {
		return err
	}
	if err := s.require(id); err != nil {
		return err
	}
	s.forget(id)
	return nil
}

// deletePlayers removes the listed players, or every player when the payload
// is empty. Unknown ids are ignored.
func deletePlayers(s *State, m mutation.Mutation, _ time.Time) error {
	if m.Empty() {
		s.Players = make(Players)
		s.Reserve = nil
		s.EditPlayer = ""
		return nil
	}

	var ids []string
	if err := m.Decode(&ids); err != nil {
		return err
	}
	for _, id := range ids {
		s.forget(id)
	}
	return nil
}

func setFlag(s *State, m mutation.Mutation, set func(*Identity)) error {
	var ids []string
	if err := m.Decode(&ids); err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.require(id); err != nil {
			return err
		}
	}
	for _, id := range ids {
		p := s.Players[id]
		set(&p.Identity)
		s.Players[id] = p
	}
	return nil
}

func clearFlag(s *State, unset func(*Identity)) {
	for id, p := range s.Players {
		unset(&p.Identity)
		s.Players[id] = p
	}
}

func assignSquires(s *State, m mutation.Mutation, _ time.Time) error {
	return setFlag(s, m, func(i *Identity) { i.IsSquire = true })
}

func clearSquires(s *State, _ mutation.Mutation, _ time.Time) error {
	clearFlag(s, func(i *Identity) { i.IsSquire = false })
	return nil
}

func assignCaptains(s *State, m mutation.Mutation, _ time.Time) error {
	return setFlag(s, m, func(i *Identity) { i.IsCaptain = true })
}

func clearCaptains(s *State, _ mutation.Mutation, _ time.Time) error {
	clearFlag(s, func(i *Identity) { i.IsCaptain = false })
	return nil
}

func clearAllExtra(s *State, _ mutation.Mutation, _ time.Time) error {
	clearFlag(s, func(i *Identity) {
		i.IsSquire = false
		i.IsCaptain = false
	})
	return nil
}

func addTeams(s *State, m mutation.Mutation, _ time.Time) error {
	var teams []Team
	if err := m.Decode(&teams); err != nil {
		return err
	}
	for i, t := range teams {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: team %d has no name", mutation.ErrInvalidPayload, i)
		}
	}
	s.Teams = teams
	return nil
}

func clearTeams(s *State, _ mutation.Mutation, _ time.Time) error {
	s.Teams = nil
	return nil
}

func addReserve(s *State, m mutation.Mutation, _ time.Time) error {
	id, err := decodeRef(m)
	if err != nil {
		return err
	}
	if err := s.require(id); err != nil {
		return err
	}
	if !slices.Contains(s.Reserve, id) {
		s.Reserve = append(s.Reserve, id)
	}
	return nil
}

// reservePlayers replaces the reserve bench with the listed players.
func reservePlayers(s *State, m mutation.Mutation, _ time.Time) error {
	var ids []string
	if err := m.Decode(&ids); err != nil {
		return err
	}
	reserve := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := s.require(id); err != nil {
			return err
		}
		if !slices.Contains(reserve, id) {
			reserve = append(reserve, id)
		}
	}
	s.Reserve = reserve
	return nil
}

func removeReservedPlayer(s *State, m mutation.Mutation, _ time.Time) error {
	id, err := decodeRef(m)
	if err != nil {
		return err
	}
	s.Reserve = slices.DeleteFunc(s.Reserve, func(r string) bool { return r == id })
	return nil
}
