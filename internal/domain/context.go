package domain

// ContextSnapshot holds device state captured before a resolution. All
// fields are optional hints; an empty snapshot must degrade gracefully,
// never crash a resolution.
type ContextSnapshot struct {
	CurrentApp   string
	ScreenWidth  int
	ScreenHeight int
	Serial       string
}
