package realtime

import "testing"

func TestTarget(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "basic",
			cfg: Config{
				BaseURL:  "wss://pos.example.com",
				VenueID:  42,
				Channels: []string{"kitchen", "notifications"},
			},
			want: "wss://pos.example.com/api/v1/ws/venue/42?channels=kitchen,notifications",
		},
		{
			name: "https mapped to wss",
			cfg: Config{
				BaseURL:  "https://pos.example.com",
				VenueID:  7,
				Channels: []string{"kitchen"},
			},
			want: "wss://pos.example.com/api/v1/ws/venue/7?channels=kitchen",
		},
		{
			name: "http mapped to ws",
			cfg: Config{
				BaseURL:  "http://localhost:8080",
				VenueID:  1,
				Channels: []string{"hardware", "inventory"},
			},
			want: "ws://localhost:8080/api/v1/ws/venue/1?channels=hardware,inventory",
		},
		{
			name: "trailing slash trimmed",
			cfg: Config{
				BaseURL:  "wss://pos.example.com/",
				VenueID:  3,
				Channels: []string{"kitchen"},
			},
			want: "wss://pos.example.com/api/v1/ws/venue/3?channels=kitchen",
		},
		{
			name: "base path preserved",
			cfg: Config{
				BaseURL:  "wss://pos.example.com/dashboard",
				VenueID:  3,
				Channels: []string{"kitchen"},
			},
			want: "wss://pos.example.com/dashboard/api/v1/ws/venue/3?channels=kitchen",
		},
		{
			name: "scoped channels escaped",
			cfg: Config{
				BaseURL:  "wss://pos.example.com",
				VenueID:  9,
				Channels: []string{"kitchen", "kitchen:grill"},
			},
			want: "wss://pos.example.com/api/v1/ws/venue/9?channels=kitchen,kitchen%3Agrill",
		},
		{
			name: "token mode appends token",
			cfg: Config{
				BaseURL:  "wss://pos.example.com",
				VenueID:  5,
				Channels: []string{"notifications"},
				AuthMode: AuthToken,
				Token:    "s3cret+/=",
			},
			want: "wss://pos.example.com/api/v1/ws/venue/5?channels=notifications&token=s3cret%2B%2F%3D",
		},
		{
			name: "no channels",
			cfg: Config{
				BaseURL: "wss://pos.example.com",
				VenueID: 2,
			},
			want: "wss://pos.example.com/api/v1/ws/venue/2?channels=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Target(tt.cfg)
			if err != nil {
				t.Fatalf("Target failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Target = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTarget_Errors(t *testing.T) {
	if _, err := Target(Config{BaseURL: "ftp://pos.example.com", VenueID: 1}); err == nil {
		t.Error("expected error for unsupported scheme")
	}
	if _, err := Target(Config{BaseURL: "pos.example.com", VenueID: 1}); err == nil {
		t.Error("expected error for missing scheme")
	}
}
