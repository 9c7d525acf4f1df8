package charcreation

import (
	"context"
	"fmt"

	"github.com/specialistvlad/talegrid/internal/state"
)

// StartingLocation places the character where its race begins.
func (m *Module) StartingLocation(ctx context.Context, st *state.SessionState) (state.Update, error) {
	loc, err := m.Services.Catalog.StartingLocation(ctx, st.Character.Race)
	if err != nil {
		return state.Update{}, err
	}
	return state.Update{
		Character: &state.CharacterPatch{
			LocationType: state.Ptr(loc.Type),
			Location:     state.Ptr(loc.Name),
		},
	}, nil
}

// InitialStatusItems sums race and class bonuses into the starting status at
// full health and hands out the class's starting items. It must run as a
// commit step.
func (m *Module) InitialStatusItems(ctx context.Context, st *state.SessionState) (state.Update, error) {
	total, err := m.Services.Catalog.TotalStats(ctx, st.Character.Race, st.Character.Profession)
	if err != nil {
		return state.Update{}, err
	}
	items, err := m.Services.Catalog.StartingItems(ctx, st.Character.Profession)
	if err != nil {
		return state.Update{}, err
	}
	status := total.Status()
	return state.Update{
		Character: &state.CharacterPatch{
			Status:      &status,
			AttackItem:  state.Ptr(items.Attack),
			DefenseItem: state.Ptr(items.Defense),
		},
	}, nil
}

// DiveIntoGame narrates the finished character once. The narration also
// becomes the story summary and the session moves on to exploration.
func (m *Module) DiveIntoGame(ctx context.Context, st *state.SessionState) (state.Update, error) {
	c := st.Character
	facts := []string{
		fmt.Sprintf("Name: %s", c.Name),
		fmt.Sprintf("Race: %s, class: %s", c.Race, c.Profession),
		fmt.Sprintf("Starting location: %s (%s)", c.Location, c.LocationType),
		fmt.Sprintf("Items: %s and %s", c.AttackItem, c.DefenseItem),
		fmt.Sprintf("Health: %d/%d", c.Status.CurrentHP, c.Status.BaseHP),
	}
	text, err := m.Services.Narrate(ctx, st, "dive_into_game",
		"Summarise the finished character and set the opening scene at the starting location.", facts...)
	if err != nil {
		return state.Update{}, err
	}
	return state.Update{
		SystemMessages: []string{text},
		StorySummary:   state.Ptr(text),
		Phase:          state.Ptr(state.PhaseExploration),
		GameContext:    []string{fmt.Sprintf("%s the %s %s arrives in %s", c.Name, c.Race, c.Profession, c.Location)},
	}, nil
}
