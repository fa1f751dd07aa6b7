package pricing

import "errors"

var (
	ErrLengthMismatch      = errors.New("pricing: spot, strike and maturity lengths differ")
	ErrOutputLength        = errors.New("pricing: output length does not match batch")
	ErrNonPositiveSpot     = errors.New("pricing: spot price must be positive and finite")
	ErrNonPositiveStrike   = errors.New("pricing: strike price must be positive and finite")
	ErrNonPositiveMaturity = errors.New("pricing: maturity must be positive and finite")
	ErrInvalidVolatility   = errors.New("pricing: volatility must be positive and finite")
	ErrInvalidRate         = errors.New("pricing: rate must be finite")
	ErrDomain              = errors.New("pricing: result is not a finite number")
)
