package engine

import "errors"

// Error kinds returned by engine operations. Callers classify failures
// with errors.Is; every failure is local to a single operation and no
// operation performs partial persistence.
var (
	// ErrValidation marks malformed or missing caller input, detected
	// before any repository access.
	ErrValidation = errors.New("validation error")

	// ErrCampaignNotFound is returned when the campaign ID matches no record.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrEntityNotFound is returned when a name matches no player, NPC,
	// bestiary entry, or combat participant in the campaign.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrDuplicateCampaign is returned when a campaign slug collides on create.
	ErrDuplicateCampaign = errors.New("campaign already exists")

	// ErrDuplicateEntity is returned when an entity identifier collides
	// within its campaign.
	ErrDuplicateEntity = errors.New("entity already exists")

	// ErrInvalidThreatLevel is returned for a threat level outside the
	// seven enumerated values.
	ErrInvalidThreatLevel = errors.New("invalid threat level")

	// ErrUnknownWeapon is returned when the named weapon is absent from
	// the attacker's weapon mapping.
	ErrUnknownWeapon = errors.New("unknown weapon")

	// ErrInvalidAttacker is returned when the attacker references a
	// participant in a terminal state (dead, fled, surrendered).
	ErrInvalidAttacker = errors.New("invalid attacker")

	// ErrInvalidTarget is returned when the target references a
	// terminal-state participant, or when removing a name that is not a
	// live participant.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrInsufficientFunds is returned when a money withdrawal exceeds
	// the holder's balance. The balance is never driven negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrRepository marks a storage-layer failure. Transient failures
	// may be retried by the caller; corruption is never silently
	// recovered.
	ErrRepository = errors.New("repository failure")
)
