// Package fees implements the ramp transaction fee engine.
// All calculations are pure; the rate tables are fixed at construction time.
package fees

// Default rate tables. Percentages are expressed in percentage points,
// so 1.2 means a 1.2% fee.
const (
	defaultBaseFee       = 1.5
	defaultMinPercentage = 0.5
)

// Config holds the rate tables used by a Calculator.
type Config struct {
	BaseFees map[PaymentMethod]float64
	// VolumeDiscounts must be ordered ascending by threshold. The first
	// threshold the amount meets wins and the scan stops there, so a large
	// amount still receives only the lowest matching discount. That is the
	// documented billing behavior, not an oversight.
	VolumeDiscounts  []VolumeDiscount
	LoyaltyDiscounts map[Tier]float64
	MinPercentage    float64
}

// DefaultConfig returns the production rate tables.
func DefaultConfig() Config {
	return Config{
		BaseFees: map[PaymentMethod]float64{
			MethodBankTransfer: 1.0,
			MethodCard:         2.5,
			MethodMobileMoney:  1.5,
			MethodMpesa:        1.2,
		},
		VolumeDiscounts: []VolumeDiscount{
			{Threshold: 10000, Discount: 0.2},
			{Threshold: 50000, Discount: 0.5},
			{Threshold: 100000, Discount: 0.8},
		},
		LoyaltyDiscounts: map[Tier]float64{
			Tier1: 0.1,
			Tier2: 0.2,
			Tier3: 0.3,
		},
		MinPercentage: defaultMinPercentage,
	}
}

// Calculator computes ramp transaction fees from fixed in-memory tables.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator with the production rate tables.
func NewCalculator() *Calculator {
	return NewCalculatorWithConfig(DefaultConfig())
}

// NewCalculatorWithConfig creates a calculator with custom rate tables.
// Zero-value fields fall back to the defaults.
func NewCalculatorWithConfig(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.BaseFees == nil {
		cfg.BaseFees = def.BaseFees
	}
	if cfg.VolumeDiscounts == nil {
		cfg.VolumeDiscounts = def.VolumeDiscounts
	}
	if cfg.LoyaltyDiscounts == nil {
		cfg.LoyaltyDiscounts = def.LoyaltyDiscounts
	}
	if cfg.MinPercentage == 0 {
		cfg.MinPercentage = def.MinPercentage
	}
	return &Calculator{cfg: cfg}
}

// Calculate computes the fee for a transaction amount. It is total over its
// domain: an unknown payment method falls back to the default base rate and
// an unknown tier gets no loyalty discount.
func (c *Calculator) Calculate(amount float64, method PaymentMethod, tier Tier) Fees {
	pct, ok := c.cfg.BaseFees[method]
	if !ok {
		pct = defaultBaseFee
	}

	// At most one volume discount: first threshold met, scanned ascending.
	for _, vd := range c.cfg.VolumeDiscounts {
		if amount >= vd.Threshold {
			pct -= vd.Discount
			break
		}
	}

	pct -= c.cfg.LoyaltyDiscounts[tier]

	if pct < c.cfg.MinPercentage {
		pct = c.cfg.MinPercentage
	}

	feeAmount := amount * pct / 100
	return Fees{
		Percentage: pct,
		Amount:     feeAmount,
		Total:      amount + feeAmount,
	}
}

// ProjectSavings compares fee outcomes for the same amount under two tiers,
// always using bank transfer as the reference payment method.
func (c *Calculator) ProjectSavings(amount float64, current, next Tier) Savings {
	cur := c.Calculate(amount, MethodBankTransfer, current)
	nxt := c.Calculate(amount, MethodBankTransfer, next)
	return Savings{
		Amount:      amount,
		CurrentTier: current,
		NextTier:    next,
		CurrentFees: cur,
		NextFees:    nxt,
		FeeSavings:  cur.Amount - nxt.Amount,
	}
}
