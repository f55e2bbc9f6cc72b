package market

import (
	"fmt"
	"strings"
	"time"
)

// SecondsToTFString maps a bar length in seconds to broker notation
// (M5, H1, D1, W1).
func SecondsToTFString(sec int32) (string, error) {
	if sec <= 0 {
		return "", fmt.Errorf("invalid timeframe seconds: %d", sec)
	}

	// Minutes
	if sec < 3600 && sec%60 == 0 {
		return fmt.Sprintf("M%d", sec/60), nil
	}

	// Hours
	if sec < 86400 && sec%3600 == 0 {
		return fmt.Sprintf("H%d", sec/3600), nil
	}

	// Days
	if sec%86400 == 0 {
		days := sec / 86400
		if days == 7 {
			return "W1", nil
		}
		return fmt.Sprintf("D%d", days), nil
	}

	return "", fmt.Errorf("cannot map timeframe: %d seconds", sec)
}

// BrokerTimeframe rewrites a timeframe in broker notation, so "5m" and
// "M5" both come back as "M5".
func BrokerTimeframe(tf string) (string, error) {
	sec, err := TFStringToSeconds(tf)
	if err != nil {
		return "", err
	}
	return SecondsToTFString(sec)
}

// TFStringToSeconds accepts broker notation (M5, H1) and exchange/host
// notation (5m, 1h, 1d).
func TFStringToSeconds(tf string) (int32, error) {
	switch strings.TrimSpace(tf) {
	case "M1", "1m":
		return 60, nil
	case "M3", "3m":
		return 180, nil
	case "M5", "5m":
		return 300, nil
	case "M15", "15m":
		return 900, nil
	case "M30", "30m":
		return 1800, nil
	case "H1", "1h":
		return 3600, nil
	case "H2", "2h":
		return 7200, nil
	case "H4", "4h":
		return 14400, nil
	case "D1", "1d":
		return 86400, nil
	case "W1", "1w":
		return 604800, nil
	default:
		return 0, fmt.Errorf("unsupported timeframe string: %s", tf)
	}
}

// ParseTimeframe returns the bar length for a timeframe string.
func ParseTimeframe(tf string) (time.Duration, error) {
	sec, err := TFStringToSeconds(tf)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}
