package models

import "strings"

// Timeframe период выборки рейтинга
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
	TimeframeAll   Timeframe = "all"
)

// NormalizeTimeframe приводит произвольное значение к допустимому, по умолчанию day
func NormalizeTimeframe(q string) Timeframe {
	switch Timeframe(strings.ToLower(strings.TrimSpace(q))) {
	case TimeframeDay, TimeframeWeek, TimeframeMonth, TimeframeYear, TimeframeAll:
		return Timeframe(strings.ToLower(strings.TrimSpace(q)))
	}
	return TimeframeDay
}

// Level класс картов, на который сегментируется рейтинг
type Level string

const (
	LevelAdvanced     Level = "advanced"
	LevelIntermediate Level = "intermediate"
)

// NormalizeLevel приводит произвольное значение к допустимому, по умолчанию advanced
func NormalizeLevel(q string) Level {
	if strings.EqualFold(strings.TrimSpace(q), string(LevelIntermediate)) {
		return LevelIntermediate
	}
	return LevelAdvanced
}

// RankingRow строка внешнего рейтинга после нормализации полей
type RankingRow struct {
	Position   int    `json:"position"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	MaxKmH     string `json:"maxKmH"`
	MaxG       string `json:"maxG"`
	Avatar     string `json:"avatar"`
	ProfileURL string `json:"profileUrl"`
	UserID     string `json:"userId"`
	S1         string `json:"s1"`
	S2         string `json:"s2"`
	S3         string `json:"s3"`
}
