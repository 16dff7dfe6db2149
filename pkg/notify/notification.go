package notify

// Notification is one push message queued for delivery to the
// configured device.
type Notification struct {
	TargetDevice string

	Title   string
	Message string
}
