package fees

// PaymentMethod identifies how the fiat leg of a ramp transaction is settled.
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCard         PaymentMethod = "card"
	MethodMobileMoney  PaymentMethod = "mobile_money"
	MethodMpesa        PaymentMethod = "mpesa"
)

// ValidPaymentMethod reports whether the method is one we charge fees for.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodBankTransfer, MethodCard, MethodMobileMoney, MethodMpesa:
		return true
	}
	return false
}

// Tier is a user loyalty tier. Unknown tiers get no loyalty discount.
type Tier string

const (
	TierNone Tier = ""
	Tier1    Tier = "tier_1"
	Tier2    Tier = "tier_2"
	Tier3    Tier = "tier_3"
)

// Fees is the result of a fee calculation.
type Fees struct {
	Percentage float64 `json:"fee_percentage"`
	Amount     float64 `json:"fee_amount"`
	Total      float64 `json:"total_amount"`
}

// VolumeDiscount pairs an amount threshold with the discount (in percentage
// points) granted once the amount meets it.
type VolumeDiscount struct {
	Threshold float64
	Discount  float64
}

// Savings compares fee outcomes for the same amount under two tiers.
type Savings struct {
	Amount      float64 `json:"amount"`
	CurrentTier Tier    `json:"current_tier"`
	NextTier    Tier    `json:"next_tier"`
	CurrentFees Fees    `json:"current_fees"`
	NextFees    Fees    `json:"next_fees"`
	FeeSavings  float64 `json:"fee_savings"`
}
