package service

const (
	LowRiskThreshold    = 85.0 // score >= 85 is Low
	MediumRiskThreshold = 60.0 // 60 <= score < 85 is Medium

	MaxNameLength       = 200
	MaxDocuments        = 20
	ScoreCacheKeyPrefix = "msme-risk:score:"
)
