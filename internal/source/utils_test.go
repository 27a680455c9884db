package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	got, changed := normalizeCRLF([]byte("a\r\nb\rc\r\n"))
	if !changed {
		t.Fatalf("expected change flag")
	}
	if !bytes.Equal(got, []byte("a\nb\rc\n")) {
		t.Fatalf("normalizeCRLF = %q", got)
	}

	plain := []byte("no carriage returns")
	got, changed = normalizeCRLF(plain)
	if changed || !bytes.Equal(got, plain) {
		t.Fatalf("plain content modified")
	}
}

func TestRemoveBOM(t *testing.T) {
	got, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !had || !bytes.Equal(got, []byte("x")) {
		t.Fatalf("BOM not stripped: %q", got)
	}
	got, had = removeBOM([]byte("xy"))
	if had || string(got) != "xy" {
		t.Fatalf("short content mangled")
	}
}
