package game

// Presence sweeping runs on the room's janitor tick, inside the actor loop.
// Eviction reuses the ordinary leave transition so a vanished drawer is
// handled exactly like one who left on purpose.

func (r *Room) sweepPresence() {
	now := r.now()
	var idle []string
	for _, p := range r.players {
		if now.Sub(p.lastSeen) > presenceTimeout {
			idle = append(idle, p.id)
		}
	}
	for _, id := range idle {
		r.log.Info().Str("player", id).Msg("evicting inactive player")
		if err := r.handleLeave(id, leaveInactive); err != nil {
			r.log.Error().Err(err).Str("player", id).Msg("presence eviction failed")
		}
	}
}

// checkEmptyGrace asks the registry to tear the room down once it has been
// empty for longer than the grace period.
func (r *Room) checkEmptyGrace() {
	if len(r.players) > 0 || r.emptySince.IsZero() {
		return
	}
	if r.now().Sub(r.emptySince) < r.emptyGrace {
		return
	}
	r.log.Info().Msg("room empty past grace period, requesting removal")
	if r.onEmpty != nil {
		r.onEmpty(r.code)
	}
}
