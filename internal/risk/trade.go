package risk

import (
	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/normalize"
)

// Trade labels produced by the default rule table.
const (
	TradeSlopeWork     domain.Trade = "slope-work"
	TradeEarthwork     domain.Trade = "earthwork"
	TradeScaffolding   domain.Trade = "scaffolding"
	TradeSteelErection domain.Trade = "steel-erection"
	TradeConcrete      domain.Trade = "concrete"
	TradePaving        domain.Trade = "paving"
	TradeDemolition    domain.Trade = "demolition"
	TradeElectrical    domain.Trade = "electrical"
	TradeRoadWork      domain.Trade = "road-work"
)

// TradeRule assigns Label when any keyword occurs in the work description.
type TradeRule struct {
	Label    domain.Trade `yaml:"label" json:"label"`
	Keywords []string     `yaml:"keywords" json:"keywords"`
}

// TradeRules is evaluated top to bottom; the first matching rule wins.
// Order is part of the contract: a description matching several rules is
// classified by whichever comes first.
type TradeRules []TradeRule

// DefaultTradeRules returns the built-in ordered rule table.
func DefaultTradeRules() TradeRules {
	return TradeRules{
		{Label: TradeSlopeWork, Keywords: []string{"法面", "のり面", "法枠", "吹付", "slope", "shotcrete"}},
		{Label: TradeEarthwork, Keywords: []string{"掘削", "土工", "埋戻", "床掘", "盛土", "excavat", "earthwork", "backfill", "trench"}},
		{Label: TradeScaffolding, Keywords: []string{"足場", "scaffold"}},
		{Label: TradeSteelErection, Keywords: []string{"鉄骨", "建方", "steel erection", "steel frame"}},
		{Label: TradeConcrete, Keywords: []string{"コンクリート", "打設", "型枠", "鉄筋", "モルタル", "concrete", "formwork", "rebar", "mortar"}},
		{Label: TradePaving, Keywords: []string{"舗装", "アスファルト", "paving", "asphalt"}},
		{Label: TradeDemolition, Keywords: []string{"解体", "撤去", "はつり", "demolition", "dismantl"}},
		{Label: TradeElectrical, Keywords: []string{"電気", "配線", "配電", "電線", "electrical", "wiring", "cable"}},
		{Label: TradeRoadWork, Keywords: []string{"交通規制", "道路", "片側通行", "road", "traffic control", "lane closure"}},
	}
}

// Classify returns the trade label for a work description.
// Blank text is TradeUnclassified; text no rule matches is TradeOther.
func (rules TradeRules) Classify(description string) domain.Trade {
	text := normalize.Compact(description)
	if text == "" {
		return domain.TradeUnclassified
	}
	for _, rule := range rules {
		if normalize.ContainsAny(text, rule.Keywords) {
			return rule.Label
		}
	}
	return domain.TradeOther
}
