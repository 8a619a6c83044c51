package weather

// MonthStats are the aggregate statistics shown above a month of
// historical weather.
type MonthStats struct {
	AvgTempF      float64 `json:"avg_temp_f"`
	MaxTempF      float64 `json:"max_temp_f"`
	MinTempF      float64 `json:"min_temp_f"`
	TotalPrecipMM float64 `json:"total_precipitation_mm"`
	TotalDays     int     `json:"total_days"`
}

// AggregateMonth computes summary statistics over a set of daily history
// records. The set may cover a partial month (the current month, or a
// month with gaps in the archive); statistics are computed over whatever
// days are present. An empty set yields zero-valued stats.
func AggregateMonth(days []HistoryDay) MonthStats {
	if len(days) == 0 {
		return MonthStats{}
	}

	var (
		sumMid    float64
		maxTemp   = days[0].MaxTempF
		minTemp   = days[0].MinTempF
		sumPrecip float64
	)

	for _, d := range days {
		sumMid += (d.MaxTempF + d.MinTempF) / 2
		if d.MaxTempF > maxTemp {
			maxTemp = d.MaxTempF
		}
		if d.MinTempF < minTemp {
			minTemp = d.MinTempF
		}
		sumPrecip += d.Precipitation
	}

	return MonthStats{
		AvgTempF:      Round1(sumMid / float64(len(days))),
		MaxTempF:      maxTemp,
		MinTempF:      minTemp,
		TotalPrecipMM: Round1(sumPrecip),
		TotalDays:     len(days),
	}
}
