package game

import "time"

// The round timer is armed when the room enters drawing and disarmed on any
// transition out of it. Each arming bumps the generation, so a fire that was
// already in flight when the round advanced submits a timeout carrying a
// stale generation and is discarded by handleTimeout.

func (r *Room) armRoundTimer() {
	r.disarmTimer()
	gen := r.timerGen
	d := time.Duration(r.settings.RoundTimeSeconds) * time.Second
	r.timer = time.AfterFunc(d, func() {
		r.submitAsync(func() error { return r.handleTimeout(gen) })
	})
}

func (r *Room) disarmTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.timerGen++
}
