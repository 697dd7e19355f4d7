package domain

import (
	"fmt"
	"time"
)

// BackCardName is the file stem that marks the shared back of every card in a game.
const BackCardName = "parte_atras"

// Card is a single card image inside a game folder.
type Card struct {
	Name string `json:"name"`
	Path string `json:"-"`
}

// Game groups the front cards of a deck with its back.
type Game struct {
	Name   string `json:"name"`
	Fronts []Card `json:"fronts"`
	Back   Card   `json:"back"`
}

// Card looks a card up by name. The back is matched too.
func (g Game) Card(name string) (Card, bool) {
	for _, c := range g.Fronts {
		if c.Name == name {
			return c, true
		}
	}
	if g.Back.Name == name && g.Back.Path != "" {
		return g.Back, true
	}
	return Card{}, false
}

// CardCopies is a front card together with the number of times it is printed.
type CardCopies struct {
	Card   Card
	Copies int
}

// Counts holds the requested copies per front card name.
type Counts map[string]int

// Validate rejects counts above max for the fronts of g. Names that are
// not fronts of g are ignored, and negative values are treated as zero by Plan.
func (c Counts) Validate(g Game, max int) error {
	for _, card := range g.Fronts {
		if n := c[card.Name]; n > max {
			return fmt.Errorf("%w: %q has %d copies, maximum is %d", ErrInvalidCount, card.Name, n, max)
		}
	}
	return nil
}

// Plan resolves the counts against the game's fronts in game order.
// Names that are not fronts of the game are ignored.
func (c Counts) Plan(g Game) ([]CardCopies, int) {
	var (
		plan  []CardCopies
		total int
	)
	for _, card := range g.Fronts {
		n := c[card.Name]
		if n <= 0 {
			continue
		}
		plan = append(plan, CardCopies{Card: card, Copies: n})
		total += n
	}
	return plan, total
}

// Document describes a generated PDF.
type Document struct {
	Name      string    `json:"name"`
	Path      string    `json:"-"`
	Game      string    `json:"game"`
	Pages     int       `json:"pages"`
	Cards     int       `json:"cards"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
