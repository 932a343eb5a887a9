package screener

import (
	"encoding/json"
	"math"
	"strconv"
)

// VCP qualification thresholds. The close floor keeps penny stocks out;
// the dollar-volume product requires institutional-grade liquidity.
const (
	vcpMinClose        = 12.0
	vcpMinMarketCap    = 2_000_000_000.0
	vcpMinBeta         = 1.0
	vcpMinDollarVolume = 900_000_000.0
)

// QualifiesVCP reports whether a screened row is a VCP candidate. The row
// must carry close, SMA200, market cap, one-year beta and 30-day average
// volume as finite numbers; a missing or non-numeric field fails the row,
// it never errors. All comparisons are strict.
func QualifiesVCP(row Row) bool {
	close, ok := toFloat(row[ColClose])
	if !ok {
		return false
	}
	sma200, ok := toFloat(row[ColSMA200])
	if !ok {
		return false
	}
	marketCap, ok := toFloat(row[ColMarketCap])
	if !ok {
		return false
	}
	beta, ok := toFloat(row[ColBeta])
	if !ok {
		return false
	}
	avgVolume, ok := toFloat(row[ColAvgVolume])
	if !ok {
		return false
	}

	if !(close > sma200) {
		return false
	}
	if !(close > vcpMinClose) {
		return false
	}
	if !(marketCap > vcpMinMarketCap) {
		return false
	}
	if !(beta > vcpMinBeta) {
		return false
	}
	if !(close*avgVolume > vcpMinDollarVolume) {
		return false
	}

	return true
}

// toFloat coerces a provider scalar to a finite float64.
func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
