package cli

import (
	"github.com/fatih/color"

	"finsight/internal/models"
)

var (
	strongColor = color.New(color.FgGreen, color.Bold)
	fairColor   = color.New(color.FgYellow)
	weakColor   = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)

	buyColor  = color.New(color.FgGreen, color.Bold)
	sellColor = color.New(color.FgRed, color.Bold)
	holdColor = color.New(color.FgYellow)
)

// formatBand renders a ratio band with its conventional color.
func formatBand(band models.Band) string {
	switch band {
	case models.BandStrong:
		return strongColor.Sprint(string(band))
	case models.BandFair:
		return fairColor.Sprint(string(band))
	case models.BandWeak:
		return weakColor.Sprint(string(band))
	default:
		return dimColor.Sprint(string(band))
	}
}

// formatSignal renders a trade signal with its conventional color.
func formatSignal(signal models.TradeSignal) string {
	switch signal {
	case models.SignalBuy:
		return buyColor.Sprint(string(signal))
	case models.SignalSell:
		return sellColor.Sprint(string(signal))
	default:
		return holdColor.Sprint(string(signal))
	}
}

// formatSentimentLabel renders a sentiment label with its conventional
// color.
func formatSentimentLabel(label models.SentimentLabel) string {
	switch label {
	case models.SentimentPositive:
		return buyColor.Sprint(string(label))
	case models.SentimentNegative:
		return sellColor.Sprint(string(label))
	default:
		return holdColor.Sprint(string(label))
	}
}
