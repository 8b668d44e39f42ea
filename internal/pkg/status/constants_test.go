package status

import (
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		name string
		st   Status
		want string
	}{
		{st: NotStarted, want: "not_started"},
		{st: InProgress, want: "in_progress"},
		{st: TranscriberVerified, want: "transcriber_verified"},
		{st: ControllerVerified, want: "controller_verified"},
		{st: Unsuitable, want: "unsuitable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.String(); got != tt.want {
				t.Errorf("Status.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrom(t *testing.T) {
	tests := []struct {
		name string
		args string
		want Status
	}{
		{args: "not_started", want: NotStarted},
		{args: "in_progress", want: InProgress},
		{args: "transcriber_verified", want: TranscriberVerified},
		{args: "controller_verified", want: ControllerVerified},
		{args: "unsuitable", want: Unsuitable},
		{args: "olia", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := From(tt.args); got != tt.want {
				t.Errorf("From() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAtLeastTranscribed(t *testing.T) {
	tests := []struct {
		name string
		st   Status
		want bool
	}{
		{st: NotStarted, want: false},
		{st: InProgress, want: false},
		{st: TranscriberVerified, want: true},
		{st: ControllerVerified, want: true},
		{st: Unsuitable, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.st.String(), func(t *testing.T) {
			if got := AtLeastTranscribed(tt.st); got != tt.want {
				t.Errorf("AtLeastTranscribed() = %v, want %v", got, tt.want)
			}
		})
	}
}
