package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestIsQuit(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"q", true},
		{"xQ", true},
		{"\x03", true},
		{"\x1b", true},
		{"\x1b[A", false},
		{"abc", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isQuit([]byte(tc.in)); got != tc.want {
			t.Errorf("isQuit(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestReadInput_DrainsAndCloses(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("aq")))

	deadline := time.Now().Add(time.Second)
	var seen []byte
	var in Input
	for time.Now().Before(deadline) {
		in = ReadInput(s)
		seen = append(seen, in.Pressed...)
		if in.Closed {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !in.Closed {
		t.Fatal("stream should report closed after EOF")
	}
	if string(seen) != "aq" {
		t.Fatalf("expected to read %q, got %q", "aq", seen)
	}
}
