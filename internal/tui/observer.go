package tui

// DrainProgress reports how much of a library has been loaded
type DrainProgress struct {
	Loaded int
	Total  int
}

// ChannelObserver adapts drain progress callbacks to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- DrainProgress
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- DrainProgress) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnProgress sends progress to the channel (non-blocking if full).
func (o *ChannelObserver) OnProgress(loaded, total int) {
	select {
	case o.ch <- DrainProgress{Loaded: loaded, Total: total}:
	default:
	}
}
