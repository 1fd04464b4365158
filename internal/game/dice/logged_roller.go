package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling and
// hit checks. All draws are logged at debug level with expression,
// dice values, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the result at debug level.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult, or an error wrapping ErrInvalidExpression.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// HitCheck performs a percentage hit check, logging the outcome.
//
// Precondition: 0 <= percent <= 100.
func (r *Roller) HitCheck(percent int) bool {
	hit := HitCheck(percent, r.src)
	r.logger.Debug("hit check",
		zap.Int("percent", percent),
		zap.Bool("hit", hit),
	)
	return hit
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source {
	return r.src
}
