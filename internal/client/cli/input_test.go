package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubTerminal(t *testing.T, terminal bool, pw []byte, err error) {
	t.Helper()
	oldRead, oldTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = oldRead, oldTerm })
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return pw, err }
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  a@x.com \n"), "Email", &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a@x.com" {
		t.Fatalf("got %q, want %q", got, "a@x.com")
	}
	if out.String() != "Email\n> " {
		t.Fatalf("prompt = %q", out.String())
	}
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("tail"), "x", &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != "tail" {
		t.Fatalf("got %q", got)
	}
}

func TestGetSimpleText_EmptyEOF(t *testing.T) {
	var out bytes.Buffer
	if _, err := GetSimpleText(rdr(""), "x", &out); err == nil {
		t.Fatal("expected EOF")
	}
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("secret1"), nil)
	var out bytes.Buffer
	got, err := GetPassword(rdr("ignored\n"), &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != "secret1" {
		t.Fatalf("got %q", got)
	}
	if !strings.HasPrefix(out.String(), "Enter password: ") {
		t.Fatalf("prompt = %q", out.String())
	}
}

func TestGetPassword_Error(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))
	var out bytes.Buffer
	if _, err := GetPassword(rdr(""), &out); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetPassword_Piped(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))
	var out bytes.Buffer
	got, err := GetPassword(rdr(" spaced pw \r\n"), &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != " spaced pw " {
		t.Fatalf("got %q", got)
	}
}
