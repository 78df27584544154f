package player

import (
	"math"
	"time"
)

// Effect reports what a reconciled message did beyond updating fields.
type Effect int

const (
	EffectNone Effect = iota
	EffectUpdated
	// EffectReady is returned once, for the first ready signal.
	EffectReady
)

type Reconciler struct {
	classifier InfoClassifier
	now        func() time.Time
}

func NewReconciler(classifier InfoClassifier, now func() time.Time) *Reconciler {
	if classifier == nil {
		classifier = MagnitudeClassifier{Threshold: DefaultDurationThreshold}
	}
	if now == nil {
		now = time.Now
	}

	return &Reconciler{
		classifier: classifier,
		now:        now,
	}
}

func (r *Reconciler) Reconcile(s *Snapshot, msg Message) Effect {
	switch msg.Event {
	case EventReady:
		if s.IsReady {
			return EffectNone
		}
		s.IsReady = true
		return EffectReady

	case EventStateChange:
		state, ok := msg.number()
		if !ok || state != math.Trunc(state) {
			return EffectNone
		}
		s.PlayerState = int(state)
		// Only "playing" is mapped; other states leave IsPlaying alone.
		if state == StatePlaying {
			s.confirmIsPlaying(true, r.now())
		}
		return EffectUpdated

	case EventInfoDelivery:
		return r.reconcileInfo(s, msg)
	}

	return EffectNone
}

func (r *Reconciler) reconcileInfo(s *Snapshot, msg Message) Effect {
	now := r.now()

	// Positions and lengths are never negative; such values are noise.
	if n, ok := msg.number(); ok {
		if n < 0 {
			return EffectNone
		}
		switch r.classifier.Classify(n) {
		case InfoDuration:
			s.confirmDuration(n, now)
		default:
			s.confirmCurrentTime(n, now)
		}
		return EffectUpdated
	}

	info, ok := msg.object()
	if !ok {
		return EffectNone
	}

	effect := EffectNone
	if info.CurrentTime != nil && *info.CurrentTime >= 0 {
		s.confirmCurrentTime(*info.CurrentTime, now)
		effect = EffectUpdated
	}
	if info.Duration != nil && *info.Duration >= 0 {
		s.confirmDuration(*info.Duration, now)
		effect = EffectUpdated
	}

	return effect
}
