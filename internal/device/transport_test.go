package device

import "testing"

func TestParseTransportFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    TransportFilter
		wantErr bool
	}{
		{"", FilterUSBAndBuiltIn, false},
		{"usb_builtin", FilterUSBAndBuiltIn, false},
		{"ANY", FilterAny, false},
		{"bluetooth", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTransportFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTransportFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTransportFilter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFilterAllows(t *testing.T) {
	if !FilterUSBAndBuiltIn.Allows(TransportUSB) || !FilterUSBAndBuiltIn.Allows(TransportBuiltIn) {
		t.Error("expected usb and builtin to pass")
	}
	for _, tr := range []Transport{TransportBluetooth, TransportNetwork, TransportUnknown, TransportVirtual} {
		if FilterUSBAndBuiltIn.Allows(tr) {
			t.Errorf("expected %s to be filtered", tr)
		}
		if !FilterAny.Allows(tr) {
			t.Errorf("expected %s to pass the any filter", tr)
		}
	}
}

func TestParseDedupePolicy(t *testing.T) {
	if p, err := ParseDedupePolicy("label"); err != nil || p != DedupeByLabel {
		t.Errorf("label: got %v, %v", p, err)
	}
	if p, err := ParseDedupePolicy("uid"); err != nil || p != DedupeByID {
		t.Errorf("uid: got %v, %v", p, err)
	}
	if _, err := ParseDedupePolicy("serial"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestNativeIDString(t *testing.T) {
	if got := NativeID(999).String(); got != "999" {
		t.Errorf("expected 999, got %s", got)
	}
}
