package testutil

import "github.com/specialistvlad/talegrid/internal/catalog"

// Catalog returns a small in-memory catalog: Human and Elf, Warrior and Mage.
func Catalog() *catalog.Memory {
	return catalog.NewMemory(catalog.Seed{
		Races: []catalog.RaceRecord{
			{
				Entry:    catalog.Entry{Name: "Human", Description: "Well balanced"},
				Stats:    catalog.Stats{Strength: 3, Agility: 3, Mentality: 3, Luck: 3, Intelligence: 3, BaseHP: 100},
				Location: catalog.Location{Type: "village", Name: "Millbrook"},
			},
			{
				Entry:    catalog.Entry{Name: "Elf", Description: "Nimble and clever"},
				Stats:    catalog.Stats{Strength: 2, Agility: 5, Mentality: 3, Luck: 2, Intelligence: 3, BaseHP: 80},
				Location: catalog.Location{Type: "forest village", Name: "Silverleaf"},
			},
		},
		Classes: []catalog.ClassRecord{
			{
				Entry: catalog.Entry{Name: "Warrior", Description: "Close combat"},
				Stats: catalog.Stats{Strength: 5, Agility: 2, BaseHP: 10},
				Items: catalog.Items{Attack: "Longsword", Defense: "Chainmail"},
			},
			{
				Entry: catalog.Entry{Name: "Mage", Description: "The arcane"},
				Stats: catalog.Stats{Mentality: 2, Intelligence: 3, BaseHP: 10},
				Items: catalog.Items{Attack: "Oak staff", Defense: "Warded robe"},
			},
		},
	})
}
