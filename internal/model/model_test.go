package model

import "testing"

func TestShortName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty name sentinel", "", "NONAME"},
		{"shorter than three chars", "al", "AL"},
		{"single word prefix", "alice", "ALI"},
		{"two words use initials", "alice bob", "AB"},
		{"three words use initials", "john paul smith", "JPS"},
		{"extra words ignored", "john paul george ringo", "JPG"},
		{"double space skips empty word", "a  b", "AB"},
		{"already uppercase", "QWE", "QWE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortName(tt.in); got != tt.want {
				t.Errorf("ShortName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOrderValid(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{"ok", Order{OwnerName: "alice", Volume: 2, OriginalVolume: 5}, true},
		{"no owner", Order{Volume: 2, OriginalVolume: 5}, false},
		{"negative volume", Order{OwnerName: "alice", Volume: -1, OriginalVolume: 5}, false},
		{"volume above original", Order{OwnerName: "alice", Volume: 6, OriginalVolume: 5}, false},
		{"fully filled boundary", Order{OwnerName: "alice", Volume: 0, OriginalVolume: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
