package realtime

import (
	"reflect"
	"testing"
)

func TestKitchenChannels(t *testing.T) {
	if got := KitchenChannels(""); !reflect.DeepEqual(got, []string{"kitchen"}) {
		t.Errorf("KitchenChannels(\"\") = %v", got)
	}
	want := []string{"kitchen", "kitchen:grill"}
	if got := KitchenChannels("grill"); !reflect.DeepEqual(got, want) {
		t.Errorf("KitchenChannels(grill) = %v, want %v", got, want)
	}
}

func TestHardwareChannels(t *testing.T) {
	if got := HardwareChannels(); !reflect.DeepEqual(got, []string{"hardware", "inventory"}) {
		t.Errorf("HardwareChannels() = %v", got)
	}

	want := []string{"hardware", "inventory", "hardware:printer", "hardware:kds"}
	if got := HardwareChannels("printer", "kds"); !reflect.DeepEqual(got, want) {
		t.Errorf("HardwareChannels(printer, kds) = %v, want %v", got, want)
	}

	// Empty device types are skipped.
	if got := HardwareChannels(""); !reflect.DeepEqual(got, []string{"hardware", "inventory"}) {
		t.Errorf("HardwareChannels(\"\") = %v", got)
	}
}

func TestNotificationChannels(t *testing.T) {
	want := []string{"general", "notifications"}
	if got := NotificationChannels(); !reflect.DeepEqual(got, want) {
		t.Errorf("NotificationChannels() = %v, want %v", got, want)
	}
}

func presetBase() Config {
	cfg := DefaultConfig()
	cfg.BaseURL = "wss://pos.example.com"
	cfg.VenueID = 4
	return cfg
}

func TestNewKitchenClient(t *testing.T) {
	client, err := NewKitchenClient(presetBase(), "grill", nil)
	if err != nil {
		t.Fatalf("NewKitchenClient failed: %v", err)
	}

	want := []string{"kitchen", "kitchen:grill"}
	if got := client.Channels(); !reflect.DeepEqual(got, want) {
		t.Errorf("Channels = %v, want %v", got, want)
	}
	if client.cfg.MaxReconnectAttempts != 10 {
		t.Errorf("MaxReconnectAttempts = %d, want 10", client.cfg.MaxReconnectAttempts)
	}
}

func TestNewHardwareClient(t *testing.T) {
	client, err := NewHardwareClient(presetBase(), []string{"printer"}, nil)
	if err != nil {
		t.Fatalf("NewHardwareClient failed: %v", err)
	}

	want := []string{"hardware", "inventory", "hardware:printer"}
	if got := client.Channels(); !reflect.DeepEqual(got, want) {
		t.Errorf("Channels = %v, want %v", got, want)
	}
	if client.cfg.MaxReconnectAttempts != 10 {
		t.Errorf("MaxReconnectAttempts = %d, want 10", client.cfg.MaxReconnectAttempts)
	}
}

func TestNewNotificationClient(t *testing.T) {
	client, err := NewNotificationClient(presetBase(), nil)
	if err != nil {
		t.Fatalf("NewNotificationClient failed: %v", err)
	}

	if got := client.Channels(); !reflect.DeepEqual(got, []string{"general", "notifications"}) {
		t.Errorf("Channels = %v", got)
	}
	if client.cfg.MaxReconnectAttempts != 5 {
		t.Errorf("MaxReconnectAttempts = %d, want 5", client.cfg.MaxReconnectAttempts)
	}
}
