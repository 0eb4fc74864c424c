package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("1947 One Rupee\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "1947 One Rupee" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("a\nb\n\n\n"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Enter text", &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "a\nb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out, "Enter password")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetInt(t *testing.T) {
	var out bytes.Buffer

	got, err := GetInt(bufio.NewReader(strings.NewReader("1985\n")), "Year?", 2000, &out)
	if err != nil || got != 1985 {
		t.Fatalf("got %d, err=%v", got, err)
	}

	got, err = GetInt(bufio.NewReader(strings.NewReader("\n")), "Year?", 2000, &out)
	if err != nil || got != 2000 {
		t.Fatalf("default: got %d, err=%v", got, err)
	}

	if _, err = GetInt(bufio.NewReader(strings.NewReader("abc\n")), "Year?", 2000, &out); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetFloat(t *testing.T) {
	var out bytes.Buffer

	got, err := GetFloat(bufio.NewReader(strings.NewReader("12.5\n")), "Value?", &out)
	if err != nil || got != 12.5 {
		t.Fatalf("got %v, err=%v", got, err)
	}

	got, err = GetFloat(bufio.NewReader(strings.NewReader("\n")), "Value?", &out)
	if err != nil || got != 0 {
		t.Fatalf("empty: got %v, err=%v", got, err)
	}
}
