// Package game drives a session: it picks and applies one hand per tick and mirrors
// the engine's board onto the scene's grid of cells.
package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"igo-local/engine"
	"igo-local/types"
)

// Chooser selects one hand among the legal ones. hands is never empty.
type Chooser interface {
	Choose(hands []types.Hand) types.Hand
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(hands []types.Hand) types.Hand

func (f ChooserFunc) Choose(hands []types.Hand) types.Hand {
	return f(hands)
}

// RandomChooser picks uniformly among the legal hands.
type RandomChooser struct {
	rng *rand.Rand
}

// NewRandomChooser returns a chooser whose sequence is fixed by seed.
func NewRandomChooser(seed uint64) *RandomChooser {
	return &RandomChooser{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (c *RandomChooser) Choose(hands []types.Hand) types.Hand {
	return hands[c.rng.IntN(len(hands))]
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// TurnDriver holds the turn marker and performs one move attempt per tick.
type TurnDriver struct {
	turn    types.Stone
	chooser Chooser
	log     *zap.Logger
}

// NewTurnDriver returns a driver whose first hand is Black's.
func NewTurnDriver(chooser Chooser, log *zap.Logger) *TurnDriver {
	return &TurnDriver{
		turn:    types.Black,
		chooser: chooser,
		log:     log.Named("turn"),
	}
}

// Turn returns the player whose hand the next tick attempts.
func (d *TurnDriver) Turn() types.Stone {
	return d.turn
}

// Tick asks g for the legal hands of the current turn, passes when there are none,
// flips the marker and applies the hand. The bool is false once g reports the game
// cannot continue.
func (d *TurnDriver) Tick(g engine.Game) (types.Hand, bool) {
	hands := g.AllowedHands(d.turn)
	hand := types.PassHand(d.turn)
	if len(hands) > 0 {
		hand = d.chooser.Choose(hands)
	}
	d.log.Debug("hand", zap.Stringer("hand", hand), zap.Int("choices", len(hands)))

	// The marker advances whatever the outcome of the hand.
	d.turn = d.turn.Opposite()
	return hand, g.PutHand(hand)
}
