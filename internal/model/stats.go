package model

import "github.com/shopspring/decimal"

// StageStat is per-stage slice of the open pipeline
type StageStat struct {
	Stage string          `json:"stage"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// OpportunityStats is the pipeline aggregation over all opportunities.
// PipelineValue sums estimated value of open opportunities, WonValue of won
// ones. StageBreakdown covers open opportunities only, in first-seen stage order.
type OpportunityStats struct {
	TotalOpportunities int             `json:"totalOpportunities"`
	OpenOpportunities  int             `json:"openOpportunities"`
	WonOpportunities   int             `json:"wonOpportunities"`
	LostOpportunities  int             `json:"lostOpportunities"`
	PipelineValue      decimal.Decimal `json:"pipelineValue"`
	WonValue           decimal.Decimal `json:"wonValue"`
	StageBreakdown     []StageStat     `json:"stageBreakdown"`
}
