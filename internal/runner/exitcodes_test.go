package runner

import "testing"

func TestLogBridgeExitCodes(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"8", "Exit Code: 8 The config option bridge.break has been set to true"},
		{"bridge exited with 2", "Exit Code: 2 Error from adapter end"},
		{"9", "Exit Code: 9 Bridge initialization failed"},
		{"0", "Exit Code: 0 Bridge execution successfully completed"},
		{"exit status 7", "exit status 7"},
		{"no trailing code", "no trailing code"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := LogBridgeExitCodes(tc.in); got != tc.want {
			t.Errorf("LogBridgeExitCodes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
