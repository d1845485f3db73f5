// Package wire holds token-level helpers for documents read by classdict
// sources.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

type frame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
}

// Duplicate describes an object key that appears twice in the same object.
type Duplicate struct {
	Path string // JSON Pointer of the repeated member.
	Key  string
}

// FirstDuplicateKey scans a JSON document token by token and returns the
// first key repeated within one object. Decoders keep only the last of the
// repeated members, so this has to run on the raw bytes.
func FirstDuplicateKey(data []byte) (Duplicate, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []frame

	done := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return Duplicate{}, false, io.ErrUnexpectedEOF
			}
			return Duplicate{}, false, nil
		}
		if err != nil {
			return Duplicate{}, false, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{object: true, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, frame{})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				done()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				if _, dup := top.keys[v]; dup {
					top.key = v
					return Duplicate{Path: pointer(stack), Key: v}, true, nil
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectingKey = false
				continue
			}
			done()
		default:
			done()
		}
	}
}

// pointer renders the JSON Pointer of the current position of the innermost
// frame.
func pointer(stack []frame) string {
	b := &strings.Builder{}
	for _, f := range stack {
		b.WriteByte('/')
		if f.object {
			b.WriteString(escape(f.key))
		} else {
			b.WriteString(strconv.Itoa(f.index))
		}
	}
	return b.String()
}

var escaper = strings.NewReplacer("~", "~0", "/", "~1")

func escape(s string) string { return escaper.Replace(s) }
