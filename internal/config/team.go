package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/courtside/scorekeeper/internal/roster"
)

// Team is the roster and the season allow-list.
type Team struct {
	Players []TeamPlayer `yaml:"players"`
	Season  []string     `yaml:"season"`
}

type TeamPlayer struct {
	Name   string `yaml:"name"`
	Number *int   `yaml:"number"`
}

// DefaultTeam is used when no team file is configured. Only Wendel and Lucas
// have jersey numbers.
func DefaultTeam() Team {
	names := []string{"Wendel", "Lucas", "Nelis", "Cris", "Valentijn", "Gerard", "Stef", "Justin", "Tycho", "Coach"}
	t := Team{
		Season: []string{"Wendel", "Lucas", "Nelis", "Cris", "Valentijn", "Justin", "Stef", "Coach", "Gerard"},
	}
	numbers := map[string]int{"Wendel": 0, "Lucas": 7}
	for _, n := range names {
		p := TeamPlayer{Name: n}
		if num, ok := numbers[n]; ok {
			p.Number = &num
		}
		t.Players = append(t.Players, p)
	}
	return t
}

// LoadTeam reads a team file. An empty path returns DefaultTeam. When the
// file has no season list, every roster player counts for the season.
func LoadTeam(path string) (Team, error) {
	if path == "" {
		return DefaultTeam(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Team{}, fmt.Errorf("failed to read team file: %w", err)
	}

	var t Team
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Team{}, fmt.Errorf("failed to parse team file: %w", err)
	}
	if len(t.Players) == 0 {
		return Team{}, fmt.Errorf("team file %s lists no players", path)
	}
	if len(t.Season) == 0 {
		for _, p := range t.Players {
			t.Season = append(t.Season, p.Name)
		}
	}
	return t, nil
}

// Members converts the team into roster members.
func (t Team) Members() []roster.Member {
	m := make([]roster.Member, 0, len(t.Players))
	for _, p := range t.Players {
		m = append(m, roster.Member{Name: p.Name, Number: p.Number})
	}
	return m
}
