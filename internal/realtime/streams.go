package realtime

// Named realtime streams pushed to back office clients.
const (
	StreamNotifications = "notifications"
	StreamLeases        = "leases"
)

// KnownStreams lists every stream a client may subscribe to.
var KnownStreams = []string{StreamNotifications, StreamLeases}
