package port

// FrameScheduler runs a callback at the next rendering opportunity.
type FrameScheduler interface {
	// RequestFrame schedules fn once. The returned function cancels it.
	RequestFrame(fn func()) (cancel func())
}
