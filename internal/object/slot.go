package object

// SlotConfig describes how a slot starts and how it redraws its timing on respawn.
type SlotConfig struct {
	MaxTurns     int   // Respawns allowed before the slot goes inactive
	Initial      Vec3  // Position restored on every respawn
	InitialSpeed Range // Speed drawn once at creation
	InitialDelay Range // Delay drawn once at creation
	Speed        Range // Speed drawn on every respawn
	Delay        Range // Delay drawn on every respawn
	Rand         Rand
	Body         Body // Optional host binding; nil keeps the state local
}

// Slot is one reusable projectile travelling along z.
//
// A slot travels until it passes the travel limit, parks there until its
// respawn timer exceeds the respawn delay, then returns to its initial
// position with a fresh speed and delay. Once turns reaches maxTurns the slot
// is hidden for good.
type Slot struct {
	initial      Vec3
	position     float64 // Distance along z
	speed        float64
	turns        int
	maxTurns     int
	visible      bool
	respawnTimer float64
	respawnDelay float64

	speedRange Range
	delayRange Range
	rand       Rand
	body       Body
}

// SlotView is a value copy of a slot's state for snapshots and inspection.
type SlotView struct {
	Position float64
	Speed    float64
	Turns    int
	MaxTurns int
	Visible  bool
	Parked   bool
}

// NewSlot creates a slot at cfg.Initial. A slot with no turn budget starts inactive.
func NewSlot(cfg SlotConfig) *Slot {
	s := &Slot{
		initial:      cfg.Initial,
		position:     cfg.Initial.Z,
		speed:        cfg.InitialSpeed.Draw(cfg.Rand),
		respawnDelay: cfg.InitialDelay.Draw(cfg.Rand),
		maxTurns:     cfg.MaxTurns,
		visible:      true,
		speedRange:   cfg.Speed,
		delayRange:   cfg.Delay,
		rand:         cfg.Rand,
		body:         cfg.Body,
	}
	if s.body != nil {
		s.body.SetPosition(cfg.Initial)
		s.body.SetEnabled(true)
	}
	if s.turns >= s.maxTurns {
		s.deactivate()
	}
	return s
}

// Advance moves the slot by dt seconds and reports whether it respawned.
// Inactive slots are left untouched.
func (s *Slot) Advance(dt, travelLimit float64) bool {
	if !s.visible || s.turns >= s.maxTurns {
		return false
	}

	s.position += dt * s.speed
	s.syncBody(s.position)

	respawned := false
	if s.position > travelLimit {
		s.respawnTimer += dt
		if s.respawnTimer > s.respawnDelay {
			s.respawn()
			respawned = true
		}
	} else {
		// Timer only runs while parked at the limit
		s.respawnTimer = 0
	}

	if s.turns >= s.maxTurns {
		s.deactivate()
	}
	return respawned
}

// respawn returns the slot to its start with new random timing.
func (s *Slot) respawn() {
	s.position = s.initial.Z
	if s.body != nil {
		s.body.SetPosition(s.initial)
		s.body.SetEnabled(true)
	}
	s.turns++
	s.speed = s.speedRange.Draw(s.rand)
	s.respawnTimer = 0
	s.respawnDelay = s.delayRange.Draw(s.rand)
}

// deactivate is the one-way transition to the inactive state.
func (s *Slot) deactivate() {
	s.visible = false
	if s.body != nil {
		s.body.SetEnabled(false)
	}
}

// syncBody writes z to the body, passing x and y through unchanged.
func (s *Slot) syncBody(z float64) {
	if s.body == nil {
		return
	}
	p := s.body.Position()
	p.Z = z
	s.body.SetPosition(p)
}

// Position returns the distance travelled along z.
func (s *Slot) Position() float64 { return s.position }

// Speed returns the current speed in units per second.
func (s *Slot) Speed() float64 { return s.speed }

// Turns returns the number of completed travel cycles.
func (s *Slot) Turns() int { return s.turns }

// MaxTurns returns the slot's turn budget.
func (s *Slot) MaxTurns() int { return s.maxTurns }

// Visible reports whether the slot is still active.
func (s *Slot) Visible() bool { return s.visible }

// Parked reports whether the slot is waiting at the travel limit.
func (s *Slot) Parked() bool { return s.respawnTimer > 0 }

// Body returns the host binding, or nil.
func (s *Slot) Body() Body { return s.body }

// View returns a copy of the slot's state.
func (s *Slot) View() SlotView {
	return SlotView{
		Position: s.position,
		Speed:    s.speed,
		Turns:    s.turns,
		MaxTurns: s.maxTurns,
		Visible:  s.visible,
		Parked:   s.Parked(),
	}
}
