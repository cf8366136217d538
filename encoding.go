package main

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// errNoEncoding is returned when none of the candidate encodings accept the bytes.
var errNoEncoding = errors.New("no supported encoding could decode the file")

// candidateEncoding decodes raw file bytes into UTF-8 text, or fails.
type candidateEncoding struct {
	name   string
	decode func([]byte) (string, error)
}

// candidateEncodings are tried in this exact order; the first success wins.
var candidateEncodings = []candidateEncoding{
	{name: "utf-8", decode: decodeUTF8},
	{name: "latin-1", decode: decodeLatin1},
	{name: "cp1252", decode: decodeWindows1252},
}

// decodeText returns the file text and the name of the encoding that produced it.
func decodeText(data []byte) (string, string, error) {
	for _, enc := range candidateEncodings {
		text, err := enc.decode(data)
		if err == nil {
			return text, enc.name, nil
		}
	}
	return "", "", errNoEncoding
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("invalid utf-8 sequence")
	}
	return string(data), nil
}

// decodeLatin1 refuses the C1 control range 0x80-0x9F. Text containing those bytes
// is almost always Windows-1252, which the next candidate handles.
func decodeLatin1(data []byte) (string, error) {
	for i, b := range data {
		if b >= 0x80 && b <= 0x9f {
			return "", fmt.Errorf("latin-1: C1 control byte 0x%02x at offset %d", b, i)
		}
	}
	return charmap.ISO8859_1.NewDecoder().String(string(data))
}

// cp1252Undefined are the byte values Windows-1252 leaves unassigned. charmap follows the
// WHATWG table and passes them through as C1 controls, so they are rejected here.
var cp1252Undefined = [256]bool{0x81: true, 0x8d: true, 0x8f: true, 0x90: true, 0x9d: true}

func decodeWindows1252(data []byte) (string, error) {
	for i, b := range data {
		if cp1252Undefined[b] {
			return "", fmt.Errorf("cp1252: undefined byte 0x%02x at offset %d", b, i)
		}
	}
	return charmap.Windows1252.NewDecoder().String(string(data))
}
