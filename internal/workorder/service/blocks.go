package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/shopcore/internal/customer/domain"
	laborratedomain "github.com/smallbiznis/shopcore/internal/laborrate/domain"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	settingsdomain "github.com/smallbiznis/shopcore/internal/shopsettings/domain"
	"github.com/smallbiznis/shopcore/internal/workorder/domain"
	"github.com/smallbiznis/shopcore/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// price cleans the submitted blocks against the shop roster and catalog and
// computes their totals. Nothing is written.
func (s *Service) price(ctx context.Context, scope shopcontext.Scope, customer customerdomain.Customer, input []domain.LaborBlock) ([]domain.LaborBlock, domain.Totals, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, domain.Totals{}, err
	}
	rates, err := s.rates.RatesByCode(ctx)
	if err != nil {
		return nil, domain.Totals{}, err
	}
	roster, err := s.shops.ListMechanics(ctx)
	if err != nil {
		return nil, domain.Totals{}, err
	}
	catalog, err := s.loadParts(ctx, scope, input)
	if err != nil {
		return nil, domain.Totals{}, err
	}

	defaultCode := laborratedomain.NormalizeCode(customer.DefaultLaborRate)
	if defaultCode == "" {
		defaultCode = customerdomain.DefaultLaborRateCode
	}

	blocks := make([]domain.LaborBlock, 0, len(input))
	for _, raw := range input {
		block, err := s.cleanBlock(ctx, raw, defaultCode, roster, catalog, settings)
		if err != nil {
			return nil, domain.Totals{}, err
		}
		blocks = append(blocks, block)
	}

	totals := domain.Calculate(domain.CalculationInput{
		Blocks:            blocks,
		Rates:             rates,
		ShopSupplyPercent: settings.ShopSupplyPercentage,
	})
	return blocks, totals, nil
}

func (s *Service) loadParts(ctx context.Context, scope shopcontext.Scope, blocks []domain.LaborBlock) (map[string]partdomain.Part, error) {
	var ids []snowflake.ID
	for _, block := range blocks {
		for _, line := range block.Parts {
			raw := strings.TrimSpace(line.PartID)
			if raw == "" {
				continue
			}
			id, err := snowflake.ParseString(raw)
			if err != nil || id == 0 {
				return nil, domain.ErrInvalidLaborBlocks
			}
			ids = append(ids, id)
		}
	}
	out := make(map[string]partdomain.Part, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	parts, err := s.parts.FindActiveByIDs(ctx, s.db, scope.TenantID, scope.ShopID, ids)
	if err != nil {
		return nil, err
	}
	for _, part := range parts {
		out[part.ID.String()] = part
	}
	return out, nil
}

func (s *Service) cleanBlock(ctx context.Context, raw domain.LaborBlock, defaultCode string, roster []shopdomain.Mechanic, catalog map[string]partdomain.Part, settings settingsdomain.Settings) (domain.LaborBlock, error) {
	if raw.Hours.IsNegative() {
		return domain.LaborBlock{}, domain.ErrInvalidLaborBlocks
	}
	block := domain.LaborBlock{
		Description: strings.TrimSpace(raw.Description),
		Hours:       money.Round2(raw.Hours),
		RateCode:    laborratedomain.NormalizeCode(raw.RateCode),
		Parts:       make([]domain.PartLine, 0, len(raw.Parts)),
	}
	if block.RateCode == "" {
		block.RateCode = defaultCode
	}

	mechanics, err := filterMechanics(raw.AssignedMechanics, roster)
	if err != nil {
		return domain.LaborBlock{}, err
	}
	block.AssignedMechanics = mechanics

	for _, line := range raw.Parts {
		cleaned, err := s.cleanLine(ctx, line, catalog, settings)
		if err != nil {
			return domain.LaborBlock{}, err
		}
		block.Parts = append(block.Parts, cleaned)
	}
	return block, nil
}

// filterMechanics keeps roster members only, snapshotting their name and
// role. A lone mechanic without a percentage takes the whole block.
func filterMechanics(assigned []domain.AssignedMechanic, roster []shopdomain.Mechanic) ([]domain.AssignedMechanic, error) {
	byID := make(map[string]shopdomain.Mechanic, len(roster))
	for _, m := range roster {
		byID[m.ID.String()] = m
	}

	out := make([]domain.AssignedMechanic, 0, len(assigned))
	for _, a := range assigned {
		member, ok := byID[strings.TrimSpace(a.UserID)]
		if !ok {
			continue
		}
		if a.Percent.IsNegative() || a.Percent.GreaterThan(hundred) {
			return nil, domain.ErrInvalidLaborBlocks
		}
		out = append(out, domain.AssignedMechanic{
			UserID:  member.ID.String(),
			Name:    member.Name,
			Role:    member.Role,
			Percent: money.Round2(a.Percent),
		})
	}
	if len(out) == 1 && !out[0].Percent.IsPositive() {
		out[0].Percent = hundred
	}
	return out, nil
}

func (s *Service) cleanLine(ctx context.Context, line domain.PartLine, catalog map[string]partdomain.Part, settings settingsdomain.Settings) (domain.PartLine, error) {
	if line.Qty < 0 || !nonNegative(line.Cost, line.Price) {
		return domain.PartLine{}, domain.ErrInvalidLaborBlocks
	}
	if (line.CoreCharge != nil && line.CoreCharge.IsNegative()) || (line.MiscCharge != nil && line.MiscCharge.IsNegative()) {
		return domain.PartLine{}, domain.ErrInvalidLaborBlocks
	}

	out := domain.PartLine{
		PartID:                strings.TrimSpace(line.PartID),
		PartNumber:            strings.TrimSpace(line.PartNumber),
		Description:           strings.TrimSpace(line.Description),
		Qty:                   line.Qty,
		Cost:                  money.Round2(line.Cost),
		Price:                 money.Round2(line.Price),
		CoreCharge:            roundPtr(line.CoreCharge),
		MiscCharge:            roundPtr(line.MiscCharge),
		MiscChargeDescription: strings.TrimSpace(line.MiscChargeDescription),
	}

	part, ok := catalog[out.PartID]
	if !ok {
		return out, nil
	}
	if out.PartNumber == "" {
		out.PartNumber = part.PartNumber
	}
	if out.Description == "" {
		out.Description = part.Description
	}
	if out.Cost.IsZero() {
		out.Cost = money.Round2(part.AverageCost)
	}
	if out.Price.IsZero() && out.Cost.IsPositive() && s.pricing != nil {
		price, err := s.pricing.ResolvePrice(ctx, out.Cost)
		if err != nil {
			return domain.PartLine{}, err
		}
		out.Price = money.Round2(price)
	}
	if out.CoreCharge == nil && settings.ChargeForCoresDefault && part.CoreCost.Valid {
		core := money.Round2(part.CoreCost.Decimal)
		out.CoreCharge = &core
	}
	return out, nil
}
