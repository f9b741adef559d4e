package battle

import (
	"errors"
	"fmt"
)

// FactoryError reports a setup failure: a referenced definition id does
// not exist or cannot be instantiated. Fatal to starting that battle.
type FactoryError struct {
	Msg string
	Err error
}

func (e *FactoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FactoryError) Unwrap() error { return e.Err }

// Action-rejection errors. Raised before any state mutation; the caller
// reprompts rather than treating them as fatal.
var (
	ErrInsufficientMP        = errors.New("insufficient mp")
	ErrCombatantNotFound     = errors.New("combatant not found")
	ErrTargetNotAlive        = errors.New("target not alive")
	ErrInvalidTargetSide     = errors.New("invalid target side")
	ErrDuplicateTarget       = errors.New("duplicate target")
	ErrTargetCount           = errors.New("invalid target count")
	ErrTargetNotAllowed      = errors.New("target not allowed")
	ErrItemNotConsumable     = errors.New("item not consumable")
	ErrItemNotAvailable      = errors.New("item not available")
	ErrTargetingNotSupported = errors.New("targeting not supported")
	ErrBattleOver            = errors.New("battle already resolved")
	ErrNotActorsTurn         = errors.New("not this combatant's turn")
)

// RejectionReason maps an action-rejection error to the short reason
// string carried by failure events.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientMP):
		return "insufficient_mp"
	case errors.Is(err, ErrTargetNotAlive):
		return "target_not_alive"
	case errors.Is(err, ErrInvalidTargetSide):
		return "invalid_target_side"
	case errors.Is(err, ErrDuplicateTarget):
		return "duplicate_target"
	case errors.Is(err, ErrTargetCount):
		return "invalid_target_count"
	case errors.Is(err, ErrTargetNotAllowed):
		return "target_not_allowed"
	case errors.Is(err, ErrItemNotConsumable):
		return "item_not_consumable"
	case errors.Is(err, ErrItemNotAvailable):
		return "item_not_available"
	case errors.Is(err, ErrTargetingNotSupported):
		return "targeting_not_supported"
	case errors.Is(err, ErrBattleOver):
		return "battle_over"
	default:
		return "rejected"
	}
}
