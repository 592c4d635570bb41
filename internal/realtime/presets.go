package realtime

import "log/slog"

// Channel names served by the dashboard's venue stream.
const (
	ChannelGeneral       = "general"
	ChannelKitchen       = "kitchen"
	ChannelHardware      = "hardware"
	ChannelInventory     = "inventory"
	ChannelNotifications = "notifications"
)

// scopeSep joins a channel name with its scope, e.g. "kitchen:grill".
const scopeSep = ":"

// KitchenChannels returns the kitchen display channel set: the venue-wide
// kitchen channel plus, when station is set, the station-scoped one.
func KitchenChannels(station string) []string {
	chans := []string{ChannelKitchen}
	if station != "" {
		chans = append(chans, ChannelKitchen+scopeSep+station)
	}
	return chans
}

// HardwareChannels returns the hardware monitor channel set: hardware and
// inventory, plus a hardware channel per requested device type.
func HardwareChannels(deviceTypes ...string) []string {
	chans := []string{ChannelHardware, ChannelInventory}
	for _, t := range deviceTypes {
		if t == "" {
			continue
		}
		chans = append(chans, ChannelHardware+scopeSep+t)
	}
	return chans
}

// NotificationChannels returns the staff notification channel set: the
// venue-wide general channel paired with notifications.
func NotificationChannels() []string {
	return []string{ChannelGeneral, ChannelNotifications}
}

// NewKitchenClient builds a client for a kitchen display, optionally
// scoped to one station. The preset overrides the channel set and gives
// the unattended display a deeper reconnect budget.
func NewKitchenClient(base Config, station string, logger *slog.Logger) (*Client, error) {
	base.Channels = KitchenChannels(station)
	base.MaxReconnectAttempts = 10
	return NewClient(base, logger)
}

// NewHardwareClient builds a client for the hardware and inventory
// monitor, optionally scoped to specific device types. The preset
// overrides the channel set and gives the unattended monitor a deeper
// reconnect budget.
func NewHardwareClient(base Config, deviceTypes []string, logger *slog.Logger) (*Client, error) {
	base.Channels = HardwareChannels(deviceTypes...)
	base.MaxReconnectAttempts = 10
	return NewClient(base, logger)
}

// NewNotificationClient builds a client for the staff notification feed
// with the standard reconnect budget.
func NewNotificationClient(base Config, logger *slog.Logger) (*Client, error) {
	base.Channels = NotificationChannels()
	base.MaxReconnectAttempts = 5
	return NewClient(base, logger)
}
