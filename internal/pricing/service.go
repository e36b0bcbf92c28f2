package pricing

import (
	"errors"

	"studiovault/internal/config"

	"github.com/shopspring/decimal"
)

// Service computes booking fee breakdowns.
//
// Contract:
// - Pure calculation; no storage access and no clock.
// - Default percentages come from config; a studio's custom_fee_percent
//   overrides the service fee percentage per quote.
// - Results are rounded half-up to whole minor units.
type Service struct {
	serviceFeePct  decimal.Decimal
	platformFeePct decimal.Decimal
}

var (
	ErrInvalidQuoteReq = errors.New("invalid quote request")
	ErrInvalidPercent  = errors.New("invalid fee percentage")
)

var oneHundred = decimal.NewFromInt(100)

func NewService(cfg config.FeeConfig) (*Service, error) {
	svc, err := parsePercent(cfg.ServiceFeePercent)
	if err != nil {
		return nil, err
	}
	plat, err := parsePercent(cfg.PlatformFeePercent)
	if err != nil {
		return nil, err
	}
	return &Service{serviceFeePct: svc, platformFeePct: plat}, nil
}

// Quote computes the fee breakdown for a set of slots.
func (s *Service) Quote(req QuoteRequest) (Quote, error) {
	if len(req.SlotPrices) == 0 {
		return Quote{}, ErrInvalidQuoteReq
	}

	var studioFee int64
	for _, p := range req.SlotPrices {
		if p <= 0 {
			return Quote{}, ErrInvalidQuoteReq
		}
		studioFee += p
	}

	servicePct := s.serviceFeePct
	if req.CustomFeePercent != "" {
		pct, err := parsePercent(req.CustomFeePercent)
		if err != nil {
			return Quote{}, err
		}
		servicePct = pct
	}

	platformPct := s.platformFeePct
	if req.FoundingPartner {
		platformPct = platformPct.Div(decimal.NewFromInt(2))
	}

	base := decimal.NewFromInt(studioFee)
	serviceFee := base.Mul(servicePct).Div(oneHundred).Round(0).IntPart()
	platformFee := base.Mul(platformPct).Div(oneHundred).Round(0).IntPart()

	return Quote{
		StudioFee:   studioFee,
		ServiceFee:  serviceFee,
		PlatformFee: platformFee,
		Total:       studioFee + serviceFee + platformFee,
	}, nil
}

func parsePercent(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidPercent
	}
	if d.IsNegative() || d.GreaterThan(oneHundred) {
		return decimal.Decimal{}, ErrInvalidPercent
	}
	return d, nil
}
