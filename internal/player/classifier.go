package player

// DefaultDurationThreshold splits bare infoDelivery numbers: anything above
// it is taken as a duration, anything else as a playback position.
const DefaultDurationThreshold = 1000

type InfoField int

const (
	InfoCurrentTime InfoField = iota
	InfoDuration
)

// InfoClassifier decides which snapshot field an untagged infoDelivery number
// belongs to.
type InfoClassifier interface {
	Classify(value float64) InfoField
}

// MagnitudeClassifier misattributes positions above Threshold and durations
// at or below it. The remote player's wire format gives nothing better.
type MagnitudeClassifier struct {
	Threshold float64
}

func (c MagnitudeClassifier) Classify(value float64) InfoField {
	if value > c.Threshold {
		return InfoDuration
	}

	return InfoCurrentTime
}
