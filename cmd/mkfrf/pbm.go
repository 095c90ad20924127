package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// bitmap is a raw PBM image; rows are padded to whole bytes.
type bitmap struct {
	width, height int
	stride        int
	bits          []byte
}

func (b *bitmap) black(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.bits[y*b.stride+x/8]&(0x80>>uint(x%8)) != 0
}

// readPBM reads a binary (P4) portable bitmap.
func readPBM(r *bufio.Reader) (*bitmap, error) {
	magic, err := pbmToken(r)
	if err != nil {
		return nil, err
	}
	if magic != "P4" {
		return nil, fmt.Errorf("pbm: magic %q, want P4", magic)
	}
	var dims [2]int
	for i := range dims {
		tok, err := pbmToken(r)
		if err != nil {
			return nil, err
		}
		if dims[i], err = strconv.Atoi(tok); err != nil || dims[i] <= 0 {
			return nil, fmt.Errorf("pbm: bad dimension %q", tok)
		}
	}

	b := &bitmap{width: dims[0], height: dims[1], stride: (dims[0] + 7) / 8}
	b.bits = make([]byte, b.stride*b.height)
	if _, err := io.ReadFull(r, b.bits); err != nil {
		return nil, fmt.Errorf("pbm: pixel data: %w", err)
	}
	return b, nil
}

// pbmToken returns the next header token, skipping comments, and consumes
// the single whitespace byte that ends it.
func pbmToken(r *bufio.Reader) (string, error) {
	var tok []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(tok) > 0 {
				return string(tok), nil
			}
			return "", fmt.Errorf("pbm: header: %w", err)
		}
		switch {
		case c == '#' && len(tok) == 0:
			if _, err := r.ReadString('\n'); err != nil {
				return "", fmt.Errorf("pbm: header: %w", err)
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}
